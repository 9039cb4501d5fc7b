package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var rootBucket = []byte("preferences")

// BoltStore implements ports.Preferences with one nested bucket per client.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) prefs.bolt under dataPath.
func NewBoltStore(dataPath string) (*BoltStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dataPath, "prefs.bolt"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(ctx context.Context, client, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(rootBucket).Bucket([]byte(client))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading preference: %w", err)
	}
	return value, found, nil
}

func (s *BoltStore) Set(ctx context.Context, client, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(rootBucket).CreateBucketIfNotExists([]byte(client))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("storing preference: %w", err)
	}
	return nil
}

func (s *BoltStore) Remove(ctx context.Context, client, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		b := root.Bucket([]byte(client))
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		if k, _ := b.Cursor().First(); k == nil {
			return root.DeleteBucket([]byte(client))
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// ClientCount returns how many clients currently hold preferences.
func (s *BoltStore) ClientCount(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(rootBucket).ForEachBucket(func(k []byte) error {
			count++
			return nil
		})
	})
	return count, err
}
