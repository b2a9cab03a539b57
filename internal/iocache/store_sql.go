package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// countersTable is the name of the table holding serialized counter maps.
const countersTable = "version_counters"

// SQLStore handles durable key-value storage using various database backends.
type SQLStore struct {
	db         *sql.DB
	tableName  string
	backend    schema.StoreBackend
	driverName string
	connStr    string
}

var _ contract.KVStore = &SQLStore{} // Compile-time check

// driverFor returns the database/sql driver name for a SQL backend.
func driverFor(backend schema.StoreBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite3", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
}

// NewSQLStore opens the counters table on the given backend, creating it if needed.
// For SQLite, connStr is the database file path.
func NewSQLStore(backend schema.StoreBackend, connStr string) (*SQLStore, error) {
	return newSQLStore(countersTable, backend, connStr)
}

func newSQLStore(tableName string, backend schema.StoreBackend, connStr string) (*SQLStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return nil, errors.New("SQLite store requires a database file path")
		}
		if err := os.MkdirAll(filepath.Dir(connStr), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory for %q: %w", connStr, err)
		}
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", connStr, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLStore{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.StoreBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key VARCHAR(255) PRIMARY KEY,
				kv_value TEXT NOT NULL,
				kv_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key VARCHAR(255) PRIMARY KEY,
				kv_value TEXT NOT NULL,
				kv_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				kv_key TEXT PRIMARY KEY,
				kv_value TEXT NOT NULL,
				kv_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
func (s *SQLStore) Get(key string) ([]byte, error) {
	var value []byte
	query := fmt.Sprintf(`SELECT kv_value FROM %s WHERE kv_key = %s`, quoteTableName(s.tableName, s.backend), s.getPlaceholder(1))
	if err := s.db.QueryRow(query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s: %w", contract.ErrKeyNotFound, key, err)
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces a key/value pair in the store.
func (s *SQLStore) Set(key string, value []byte) error {
	if _, err := s.db.Exec(s.getUpsertQuery(), key, string(value), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix and returns the number of rows removed.
// The prefix is compared literally, so LIKE wildcards in it match only themselves.
func (s *SQLStore) DeletePrefix(prefix string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s`, quoteTableName(s.tableName, s.backend), s.prefixCondition(1))
	res, err := s.db.Exec(query, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys with prefix %s: %w", prefix, err)
	}
	return res.RowsAffected()
}

// prefixCondition matches keys whose first characters equal a prefix. It takes
// two parameters starting at n: the prefix length in characters, then the prefix.
func (s *SQLStore) prefixCondition(n int) string {
	return fmt.Sprintf("substr(kv_key, 1, %s) = %s", s.getPlaceholder(n), s.getPlaceholder(n+1))
}

// getPlaceholder returns the n-th parameter placeholder for the backend.
func (s *SQLStore) getPlaceholder(n int) string {
	switch s.backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("$%d", n)
	default: // SQLite and MySQL
		return "?"
	}
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *SQLStore) getUpsertQuery() string {
	quotedTableName := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_timestamp) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE kv_value = new.kv_value, kv_timestamp = new.kv_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_timestamp) VALUES ($1, $2, $3)
			ON CONFLICT (kv_key) DO UPDATE SET kv_value = EXCLUDED.kv_value, kv_timestamp = EXCLUDED.kv_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (kv_key, kv_value, kv_timestamp) VALUES (?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the store.
func (s *SQLStore) GetStatus() (schema.StoreStatus, error) {
	return s.status("")
}

// GetStatusPrefix is GetStatus with entry counts and times limited to keys
// starting with prefix. The table size still covers the whole table.
func (s *SQLStore) GetStatusPrefix(prefix string) (schema.StoreStatus, error) {
	return s.status(prefix)
}

func (s *SQLStore) status(prefix string) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Location:  string(locationOf(s.backend)),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(s.tableName, s.backend)

	var (
		where string
		args  []any
	)
	if prefix != "" {
		where = " WHERE " + s.prefixCondition(1)
		args = []any{utf8.RuneCountInString(prefix), prefix}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quotedTableName, where)
	if err := s.db.QueryRow(countQuery, args...).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(kv_timestamp), MIN(kv_timestamp) FROM %s%s", quotedTableName, where)
	if err := s.db.QueryRow(rangeQuery, args...).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Rough estimate used when a backend-specific size query is unavailable
	estimate := int64(status.TotalEntries) * 256

	switch s.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := s.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizeBytes = estimate
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := s.db.QueryRow(sizeQuery, cfg.DBName, s.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	}

	return status, nil
}
