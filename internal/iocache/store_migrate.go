package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateStore runs schema migrations for a SQL-backed store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
// For SQLite, connStr is the database file path.
func MigrateStore(backend schema.StoreBackend, connStr string, targetVersion int) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return fmt.Errorf("migrations are not supported for %s backend: %w", backend, err)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := newMigrator(backend, db)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}
	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at version 0")
		} else {
			fmt.Printf("Successfully rolled back from version %d to version 0\n", currentVersion)
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}

// MigrateLocation runs MigrateStore against the database behind a store location.
// Only SQLite local stores and the synchronized SQL store have a schema to migrate.
func MigrateLocation(cfg contract.StoreConfig, location schema.StoreLocation, namespace string, targetVersion int) error {
	backend, connStr, err := migrationTarget(cfg, location, namespace)
	if err != nil {
		return err
	}
	return MigrateStore(backend, connStr, targetVersion)
}

// migrationTarget resolves the backend and connection string of a location.
func migrationTarget(cfg contract.StoreConfig, location schema.StoreLocation, namespace string) (schema.StoreBackend, string, error) {
	if location == schema.SynchronizedLocation {
		if !cfg.SyncBackend.IsSynchronized() {
			return "", "", fmt.Errorf("no synchronized backend configured")
		}
		return cfg.SyncBackend, cfg.SyncDBConnect, nil
	}

	if cfg.LocalBackend != schema.SQLiteBackend {
		return "", "", fmt.Errorf("migrations are not supported for %s local backend", cfg.LocalBackend)
	}
	if namespace != "" {
		if err := contract.ValidateNamespace(namespace); err != nil {
			return "", "", err
		}
	}
	path := contract.GetStoreDBFilePath(cfg.LocalDBDir, schema.SQLiteBackend, namespace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create store directory for %q: %w", path, err)
	}
	return schema.SQLiteBackend, path, nil
}

// newMigrator wires the embedded migrations to a database driver for backend.
func newMigrator(backend schema.StoreBackend, db *sql.DB) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "deviceinfo", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
