// Package iocache provides the persistent key-value stores behind counters.
package iocache

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

// syncStoreKey is the cache key of the shared synchronized connection.
const syncStoreKey = "sync"

// StoreManager opens and owns the local and synchronized stores for a configuration.
// Stores are opened lazily and reused; callers receive views whose Close is a no-op.
type StoreManager struct {
	sync.Mutex // Protects cfg and the store cache
	cfg        contract.StoreConfig
	stores     map[string]contract.KVStore
}

var (
	_ contract.StoreFactory    = &StoreManager{} // Compile-time check
	_ contract.IdentityChecker = &StoreManager{} // Compile-time check
)

// NewStoreFactory returns a StoreManager for the given store configuration.
func NewStoreFactory(cfg contract.StoreConfig) *StoreManager {
	return &StoreManager{cfg: cfg, stores: make(map[string]contract.KVStore)}
}

// Config returns the store configuration in use.
func (mgr *StoreManager) Config() contract.StoreConfig {
	mgr.Lock()
	defer mgr.Unlock()
	return mgr.cfg
}

// SyncIdentity reports the account identity for the synchronized store. It is
// available only when an identity and a synchronized backend are configured.
func (mgr *StoreManager) SyncIdentity() (string, bool) {
	mgr.Lock()
	defer mgr.Unlock()
	identity := strings.TrimSpace(mgr.cfg.SyncIdentity)
	return identity, identity != "" && mgr.cfg.SyncBackend != ""
}

// OpenLocal opens the device-local store. An empty namespace selects the default partition.
func (mgr *StoreManager) OpenLocal(namespace string) (contract.KVStore, error) {
	if namespace != "" {
		if err := contract.ValidateNamespace(namespace); err != nil {
			return nil, err
		}
	}

	mgr.Lock()
	defer mgr.Unlock()

	cacheKey := "local/" + namespace
	if store, ok := mgr.stores[cacheKey]; ok {
		return &managedStore{inner: store}, nil
	}

	var (
		store contract.KVStore
		err   error
	)
	backend := mgr.cfg.LocalBackend
	switch backend {
	case schema.SQLiteBackend, "":
		store, err = NewSQLStore(schema.SQLiteBackend, contract.GetStoreDBFilePath(mgr.cfg.LocalDBDir, schema.SQLiteBackend, namespace))
	case schema.BoltBackend:
		store, err = NewBoltStore(contract.GetStoreDBFilePath(mgr.cfg.LocalDBDir, schema.BoltBackend, namespace), 0o600)
	case schema.MemoryBackend:
		store = NewMemoryStore()
	case schema.NoneBackend:
		store = NewNoneStore()
	default:
		err = fmt.Errorf("unsupported local backend: %s. Must be sqlite, bolt, memory, or none", backend)
	}
	if err != nil {
		return nil, err
	}

	mgr.stores[cacheKey] = store
	return &managedStore{inner: store}, nil
}

// OpenSynchronized opens the synchronized store with keys scoped to identity.
func (mgr *StoreManager) OpenSynchronized(identity string) (contract.KVStore, error) {
	if err := contract.ValidateSyncIdentity(identity); err != nil {
		return nil, fmt.Errorf("synchronized store requires a valid account identity: %w", err)
	}

	mgr.Lock()
	defer mgr.Unlock()

	store, ok := mgr.stores[syncStoreKey]
	if !ok {
		backend := mgr.cfg.SyncBackend
		if !backend.IsSynchronized() {
			return nil, fmt.Errorf("no synchronized backend configured")
		}
		sqlStore, err := NewSQLStore(backend, mgr.cfg.SyncDBConnect)
		if err != nil {
			return nil, fmt.Errorf("failed to open synchronized store: %w", err)
		}
		store = sqlStore
		mgr.stores[syncStoreKey] = store
	}
	return &managedStore{inner: store, prefix: identityPrefix(identity)}, nil
}

// Close closes every store opened by the manager and resets its cache.
func (mgr *StoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	var result *multierror.Error
	for key, store := range mgr.stores {
		if err := store.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close %s store: %w", key, err))
		}
	}
	mgr.stores = make(map[string]contract.KVStore)
	return result.ErrorOrNil()
}

// Status reports on the store behind a location. The synchronized location
// needs a configured backend and identity.
func (mgr *StoreManager) Status(location schema.StoreLocation, namespace string) (schema.StoreStatus, error) {
	var (
		store contract.KVStore
		err   error
	)
	if location == schema.SynchronizedLocation {
		identity, ok := mgr.SyncIdentity()
		if !ok {
			return schema.StoreStatus{}, fmt.Errorf("synchronized store unavailable: set sync-backend and sync-identity")
		}
		store, err = mgr.OpenSynchronized(identity)
	} else {
		store, err = mgr.OpenLocal(namespace)
	}
	if err != nil {
		return schema.StoreStatus{}, err
	}
	return store.GetStatus()
}

// reset swaps in a new configuration after closing open stores.
func (mgr *StoreManager) reset(cfg contract.StoreConfig) error {
	err := mgr.Close()
	mgr.Lock()
	mgr.cfg = cfg
	mgr.Unlock()
	return err
}

// ensureDir creates the local store directory when a file-backed backend is used.
func ensureDir(cfg contract.StoreConfig) error {
	if cfg.LocalBackend != schema.SQLiteBackend && cfg.LocalBackend != schema.BoltBackend {
		return nil
	}
	dir := cfg.LocalDBDir
	if dir == "" {
		dir = contract.GetStoreDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return nil
}
