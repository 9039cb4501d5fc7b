package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	clients map[string]map[string]string // client -> key -> value
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients: make(map[string]map[string]string),
	}
}

func (s *MemoryStore) Get(ctx context.Context, client, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.clients[client][key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, client, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, ok := s.clients[client]
	if !ok {
		prefs = make(map[string]string)
		s.clients[client] = prefs
	}
	prefs[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, client, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, ok := s.clients[client]
	if !ok {
		return nil
	}
	delete(prefs, key)
	if len(prefs) == 0 {
		delete(s.clients, client)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// ClientCount returns how many clients currently hold preferences.
func (s *MemoryStore) ClientCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients), nil
}
