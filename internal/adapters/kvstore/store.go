package kvstore

import (
	"fmt"

	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// Backend names accepted by Open.
const (
	BackendBolt   = "bbolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the preference store for backend, rooted at dataPath.
func Open(backend, dataPath string) (ports.Preferences, error) {
	switch backend {
	case "", BackendBolt:
		return NewBoltStore(dataPath)
	case BackendSQLite:
		return NewSQLiteStore(dataPath)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown preferences backend %q", backend)
}
