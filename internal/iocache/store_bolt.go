package iocache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

// Bucket names used by the bolt store.
const (
	countersBucket   = countersTable
	timestampsBucket = countersTable + "_ts"
)

// BoltStore is a single-file local store backed by boltdb.
type BoltStore struct {
	db   *bolt.DB
	path string
}

var _ contract.KVStore = &BoltStore{} // Compile-time check

// NewBoltStore opens or creates the bolt file at path and ensures its buckets exist.
func NewBoltStore(path string, mode os.FileMode) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store requires a database file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory for %q: %w", path, err)
	}
	db, err := bolt.Open(path, mode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("unable to open bolt store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{countersBucket, timestampsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("error creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, path: path}, nil
}

// Get retrieves a value by key from the store.
func (b *BoltStore) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(countersBucket)).Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("%w: %s", contract.ErrKeyNotFound, key)
		}
		// Bolt values are only valid for the life of the transaction
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set inserts or replaces a key/value pair in the store.
func (b *BoltStore) Set(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(countersBucket)).Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
		ts := make([]byte, 8)
		binary.BigEndian.PutUint64(ts, uint64(time.Now().Unix()))
		return tx.Bucket([]byte(timestampsBucket)).Put([]byte(key), ts)
	})
}

// GetStatus returns status information about the store.
func (b *BoltStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(schema.BoltBackend),
		Location:  string(schema.LocalLocation),
		Connected: b.db != nil,
	}
	err := b.db.View(func(tx *bolt.Tx) error {
		status.TotalEntries = tx.Bucket([]byte(countersBucket)).Stats().KeyN
		status.TableSizeBytes = tx.Size()
		return tx.Bucket([]byte(timestampsBucket)).ForEach(func(_, v []byte) error {
			if len(v) != 8 {
				return nil
			}
			ts := time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
			if ts.After(status.LastEntryTime) {
				status.LastEntryTime = ts
			}
			if status.OldestEntryTime.IsZero() || ts.Before(status.OldestEntryTime) {
				status.OldestEntryTime = ts
			}
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to read bolt status: %w", err)
	}
	return status, nil
}

// Close closes the underlying bolt file.
func (b *BoltStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
