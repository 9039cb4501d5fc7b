// Package kvstore provides per-client preference store adapters.
// Clean Architecture: Adapter implementing ports.Preferences.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ports.Preferences on a single SQLite table.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) prefs.db under dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "prefs.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		client TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (client, key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored value and whether it exists.
func (s *SQLiteStore) Get(ctx context.Context, client, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE client = ? AND key = ?", client, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying preference: %w", err)
	}
	return value, true, nil
}

// Set stores value, replacing any previous one.
func (s *SQLiteStore) Set(ctx context.Context, client, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO preferences (client, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, client, key, value)
	if err != nil {
		return fmt.Errorf("storing preference: %w", err)
	}
	return nil
}

// Remove deletes key; removing a missing key is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, client, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM preferences WHERE client = ? AND key = ?", client, key)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ClientCount returns how many distinct clients have stored preferences.
func (s *SQLiteStore) ClientCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT client) FROM preferences").Scan(&count)
	return count, err
}
