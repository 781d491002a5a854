package iocache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

// resultTable is the name of the table (or Redis key prefix) for result caching.
const resultTable = "skillspot_result_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global cache manager with separate result and analysis stores.
// An empty cacheBackend disables result caching; an empty analysisBackend disables analysis tracking.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, analysisBackend schema.DatabaseBackend, analysisConnStr string, ttl time.Duration) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var resultStore contract.CacheStore
		if cacheBackend != "" {
			resultStore, err = NewCacheStore(resultTable, cacheBackend, cacheConnStr, ttl)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize result caching: %w", err)
				return
			}
		}

		var analysisStore contract.AnalysisStore
		if analysisBackend != "" {
			analysisStore, err = NewAnalysisStore(analysisBackend, analysisConnStr)
			if err != nil {
				if resultStore != nil {
					_ = resultStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize analysis store: %w", err)
				return
			}
		}

		Manager.set(resultStore, analysisStore)
	})

	return initErr
}

// CloseCaching closes the global stores once. Later calls are no-ops.
func CloseCaching() {
	closeOnce.Do(func() {
		if err := Manager.Close(); err != nil {
			contract.LogWarn("Failed to close cache stores", err)
		}
	})
}

// ClearCache clears the result cache for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the table.
// For Redis, it deletes the keys under the cache prefix.
// For memory and none, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return sqldb.DropTable(backend, connStr, resultTable)

	case schema.RedisBackend:
		store, err := NewRedisStore(connStr, resultTable, 0)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.Clear()

	case schema.MemoryBackend, schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearAnalysis clears the analysis data for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the analysis and migration tables.
// For NoneBackend, it does nothing.
func ClearAnalysis(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range []string{skillScoresTable, analysisRunsTable, analysisMigrationsTable} {
			if err := sqldb.DropTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported analysis backend for clearing: %s", backend)
	}
}

func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	// Remove the file; ignore if it doesn't exist
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}
