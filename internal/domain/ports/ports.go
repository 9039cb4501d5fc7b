// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations.
// Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

// DatasetLoader fetches and parses Q/A records from a source location.
type DatasetLoader interface {
	// Load reads the dataset at source (file path or URL).
	Load(ctx context.Context, source string) (*entities.Dataset, error)

	// Supports reports whether this loader can handle source.
	Supports(source string) bool
}

// DatasetCollector loads several sources and merges them in order.
type DatasetCollector interface {
	// LoadAll fails only when every source failed to load. An empty
	// dataset from sources that loaded is a valid result.
	LoadAll(ctx context.Context, sources []string) (*entities.Dataset, []entities.SourceReport, error)
}

// DatasetParser turns raw bytes into Q/A records.
// Malformed records are skipped and reported, never fatal.
type DatasetParser interface {
	// Parse decodes data; name is used to pick the format (".json", ".jsonl").
	Parse(ctx context.Context, data []byte, name string) (*entities.Dataset, error)

	// SupportedFormats returns formats this parser handles (e.g., "json").
	SupportedFormats() []string
}

// SearchIndex answers approximate lookups keyed on the normalized question.
// An index is immutable after construction; reloading builds a new one.
type SearchIndex interface {
	// Search returns the lowest-scoring record with score <= threshold.
	// Ties go to the record earliest in load order.
	Search(query string) (entities.Match, bool)

	// Len returns the number of indexed records.
	Len() int

	// Threshold returns the maximum accepted dissimilarity.
	Threshold() float64
}

// IndexBuilder constructs a fresh SearchIndex over a record collection.
type IndexBuilder interface {
	Build(records []entities.QARecord) (SearchIndex, error)
}

// KeywordMatcher classifies normalized text into a fallback category.
type KeywordMatcher interface {
	// Classify returns the first category (in rule order) whose keyword
	// occurs in text, or the default category.
	Classify(text string) entities.Category
}

// Preferences is a small per-client key/value store, the server-side
// equivalent of the widget's browser-local storage.
type Preferences interface {
	Get(ctx context.Context, client, key string) (string, bool, error)
	Set(ctx context.Context, client, key, value string) error
	Remove(ctx context.Context, client, key string) error

	// ClientCount returns how many clients currently hold preferences.
	ClientCount(ctx context.Context) (int, error)

	Close() error
}

// Recorder receives resolution and load outcomes for metrics.
type Recorder interface {
	ObserveReply(source string)
	ObserveLoad(ok bool, records int)
}

// FileWatcher monitors dataset files for changes.
type FileWatcher interface {
	// Watch starts monitoring the given files and emits events.
	Watch(ctx context.Context, paths []string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	}
	return "unknown"
}
