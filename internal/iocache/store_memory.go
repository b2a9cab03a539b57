package iocache

import (
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

type memoryEntry struct {
	value []byte
	ts    time.Time
}

// MemoryStore is a process-local store. Values do not survive a restart.
type MemoryStore struct {
	mu sync.RWMutex
	db map[string]memoryEntry
}

var _ contract.KVStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{db: make(map[string]memoryEntry)}
}

// Get retrieves a copy of the value stored under key.
func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.db[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contract.ErrKeyNotFound, key)
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value under key.
func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db[key] = memoryEntry{value: append([]byte(nil), value...), ts: time.Now()}
	return nil
}

// GetStatus returns status information about the store.
func (m *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := schema.StoreStatus{
		Backend:      string(schema.MemoryBackend),
		Location:     string(schema.LocalLocation),
		Connected:    true,
		TotalEntries: len(m.db),
	}
	for _, e := range m.db {
		status.TableSizeBytes += int64(len(e.value))
		if e.ts.After(status.LastEntryTime) {
			status.LastEntryTime = e.ts
		}
		if status.OldestEntryTime.IsZero() || e.ts.Before(status.OldestEntryTime) {
			status.OldestEntryTime = e.ts
		}
	}
	return status, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// NoneStore is the disabled backend: reads find nothing and writes are dropped.
type NoneStore struct{}

var _ contract.KVStore = NoneStore{} // Compile-time check

// NewNoneStore returns the disabled store.
func NewNoneStore() contract.KVStore { return NoneStore{} }

// Get always reports the key as missing.
func (NoneStore) Get(key string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", contract.ErrKeyNotFound, key)
}

// Set discards the value.
func (NoneStore) Set(string, []byte) error { return nil }

// GetStatus reports a disconnected store.
func (NoneStore) GetStatus() (schema.StoreStatus, error) {
	return schema.StoreStatus{Backend: string(schema.NoneBackend), Location: string(schema.LocalLocation)}, nil
}

// Close is a no-op.
func (NoneStore) Close() error { return nil }
