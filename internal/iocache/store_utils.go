package iocache

import (
	"fmt"
	"regexp"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName checks that a table name is safe to interpolate into SQL.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern.String())
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.StoreBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// locationOf reports where a backend keeps its data.
func locationOf(backend schema.StoreBackend) schema.StoreLocation {
	if backend.IsSynchronized() {
		return schema.SynchronizedLocation
	}
	return schema.LocalLocation
}

// identityPrefix is the key prefix for an account in the synchronized store.
func identityPrefix(identity string) string {
	return identity + "/"
}

// managedStore is a view of a manager-owned store. Keys are prefixed and Close
// is a no-op because the StoreManager owns the connection.
type managedStore struct {
	inner  contract.KVStore
	prefix string
}

var _ contract.KVStore = &managedStore{} // Compile-time check

func (s *managedStore) Get(key string) ([]byte, error) {
	return s.inner.Get(s.prefix + key)
}

func (s *managedStore) Set(key string, value []byte) error {
	return s.inner.Set(s.prefix+key, value)
}

// prefixStatuser is a store that can report status for a key prefix only.
type prefixStatuser interface {
	GetStatusPrefix(prefix string) (schema.StoreStatus, error)
}

var _ prefixStatuser = &SQLStore{} // Compile-time check

// GetStatus reports on the keys of this view when the store supports it.
func (s *managedStore) GetStatus() (schema.StoreStatus, error) {
	if ps, ok := s.inner.(prefixStatuser); ok && s.prefix != "" {
		return ps.GetStatusPrefix(s.prefix)
	}
	return s.inner.GetStatus()
}

func (s *managedStore) Close() error { return nil }
