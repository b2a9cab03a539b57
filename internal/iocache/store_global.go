package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/logging"
	"github.com/huangsam/deviceinfo/schema"
	"go.uber.org/zap"
)

// Global Manager instance for main logic.
var (
	Manager   = NewStoreFactory(contract.DefaultConfig().Store)
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores configures the global store manager and opens the default local store
// so configuration problems surface early. Subsequent calls are no-ops.
func InitStores(cfg contract.StoreConfig) error {
	var initErr error

	initOnce.Do(func() {
		if err := ensureDir(cfg); err != nil {
			initErr = err
			return
		}
		if err := Manager.reset(cfg); err != nil {
			logging.Warn("failed to close previous stores", zap.Error(err))
		}
		if _, err := Manager.OpenLocal(""); err != nil {
			initErr = fmt.Errorf("failed to initialize local store: %w", err)
			return
		}
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		if err := Manager.Close(); err != nil {
			logging.Warn("failed to close stores", zap.Error(err))
		}
	})
}

// ClearStore removes stored counters for one location.
// For local SQLite and bolt it deletes the database file of the namespace.
// For the synchronized store it deletes the identity's keys, or drops the table
// when no identity is configured. Memory and none backends have nothing to clear.
func ClearStore(cfg contract.StoreConfig, location schema.StoreLocation, namespace string) error {
	if location == schema.SynchronizedLocation {
		return clearSynchronized(cfg)
	}

	switch cfg.LocalBackend {
	case schema.SQLiteBackend, schema.BoltBackend:
		if namespace != "" {
			if err := contract.ValidateNamespace(namespace); err != nil {
				return err
			}
		}
		dbFilePath := contract.GetStoreDBFilePath(cfg.LocalDBDir, cfg.LocalBackend, namespace)
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MemoryBackend, schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported local backend for clearing: %s", cfg.LocalBackend)
	}
}

func clearSynchronized(cfg contract.StoreConfig) error {
	if !cfg.SyncBackend.IsSynchronized() {
		return fmt.Errorf("no synchronized backend configured")
	}
	if cfg.SyncIdentity == "" {
		driverName, err := driverFor(cfg.SyncBackend)
		if err != nil {
			return err
		}
		return clearSQLTable(driverName, cfg.SyncDBConnect, countersTable, cfg.SyncBackend)
	}

	if err := contract.ValidateSyncIdentity(cfg.SyncIdentity); err != nil {
		return err
	}
	store, err := NewSQLStore(cfg.SyncBackend, cfg.SyncDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.DeletePrefix(identityPrefix(cfg.SyncIdentity))
	if err != nil {
		return err
	}
	logging.Debug("cleared synchronized counters", zap.String("identity", cfg.SyncIdentity), zap.Int64("rows", n))
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string, backend schema.StoreBackend) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
