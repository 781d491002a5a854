package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

// CacheStoreImpl handles durable storage operations using various database backends.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
// SQL backends keep entries until cleared; the caller checks the timestamp against its TTL.
// Redis expires entries natively after ttl.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string, ttl time.Duration) (contract.CacheStore, error) {
	// Validate table name to prevent SQL injection
	if err := sqldb.ValidateTableName(tableName); err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		// handled below
	case schema.RedisBackend:
		return NewRedisStore(connStr, tableName, ttl)
	case schema.MemoryBackend:
		return NewMemoryStore(), nil
	case schema.NoneBackend:
		// Return a no-op store for disabled caching
		return &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, redis, memory or none", backend)
	}

	db, err := sqldb.Open(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	// Create the table schema
	query := getCreateTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := sqldb.QuoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store. A miss is sql.ErrNoRows.
func (ps *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ps.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		sqldb.QuoteTableName(ps.tableName, ps.backend), sqldb.Placeholder(ps.backend, 1))
	row := ps.db.QueryRow(query, key)

	if err := row.Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ps *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ps.db == nil {
		return nil
	}
	_, err := ps.db.Exec(ps.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Clear removes every entry but keeps the table.
func (ps *CacheStoreImpl) Clear() error {
	if ps.db == nil {
		return nil
	}
	_, err := ps.db.Exec("DELETE FROM " + sqldb.QuoteTableName(ps.tableName, ps.backend))
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ps *CacheStoreImpl) getUpsertQuery() string {
	quotedTableName := sqldb.QuoteTableName(ps.tableName, ps.backend)
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}

	if ps.db == nil {
		return status, nil
	}

	quotedTableName := sqldb.QuoteTableName(ps.tableName, ps.backend)

	row := ps.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = ps.db.QueryRow(fmt.Sprintf("SELECT MAX(cache_timestamp), MIN(cache_timestamp) FROM %s", quotedTableName))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Fallback rough estimate when the size query is unavailable
	estimate := int64(status.TotalEntries) * 1000

	switch ps.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ps.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizeBytes = estimate
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ps.db.QueryRow(sizeQuery, cfg.DBName, ps.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	default:
		status.TableSizeBytes = estimate
	}

	return status, nil
}
