package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/iocache"
	"github.com/huangsam/skillspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	ttl, err := time.ParseDuration(viper.GetString("cache-ttl"))
	if err != nil {
		return fmt.Errorf("invalid cache-ttl: %w", err)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no analysis tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", "", ttl); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// sqliteFilePath is the SQLite file a store uses: the connect string when set, else the default.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by query commands. This avoids opening the data source
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the query result cache (improves performance)",
	Long: `Manage the cache of computed query results.

Skillspot caches every query result under the operation, its normalized
parameters and the data version. Loading new data changes the version, so
stale results are never served; entries also expire after --cache-ttl.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, memory, or none

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached results

Examples:
  # Check cache status
  skillspot cache status

  # Clear the Redis cache
  skillspot cache clear --cache-backend redis --cache-db-connect redis://localhost:6379/0`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached query results",
	Long: `Delete all cached query results from the configured backend.

Use this when:
- Cache may be stale or corrupted
- Measuring query performance without cache
- Reclaiming disk space

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table
For Redis: Deletes the keys under the cache prefix

Examples:
  # Clear SQLite cache (default)
  skillspot cache clear

  # Clear MySQL cache (set connection string via env variable)
  SKILLSPOT_CACHE_BACKEND=mysql SKILLSPOT_CACHE_DB_CONNECT="..." skillspot cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the result cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  skillspot cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetResultStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("result caching is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
