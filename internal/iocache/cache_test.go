package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		analysisPath := filepath.Join(dir, "analysis.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, analysisPath, time.Hour)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetResultStore())
		assert.NotNil(t, Manager.GetAnalysisStore())
		CloseCaching()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		path := filepath.Join(t.TempDir(), "cache.db")

		err1 := InitStores(schema.SQLiteBackend, path, "", "", time.Hour)
		err2 := InitStores(schema.SQLiteBackend, path, "", "", time.Hour)
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Nil(t, Manager.GetAnalysisStore())

		// Multiple closes should be safe (sync.Once)
		CloseCaching()
		CloseCaching()
	})

	t.Run("memory and none", func(t *testing.T) {
		resetGlobals()
		err := InitStores(schema.MemoryBackend, "", schema.NoneBackend, "", time.Hour)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, Manager.GetResultStore())
		CloseCaching()
	})

	t.Run("close detaches stores", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitStores(schema.MemoryBackend, "", "", "", time.Hour))
		require.NotNil(t, Manager.GetResultStore())
		assert.NoError(t, Manager.Close())
		assert.Nil(t, Manager.GetResultStore())
		assert.NoError(t, Manager.Close())
	})

	t.Run("bad backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores("oracle", "", "", "", time.Hour)
		assert.Error(t, err)
	})
}

func TestCacheStoreRoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) contract.CacheStore{
		"sqlite": func(t *testing.T) contract.CacheStore {
			store, err := NewCacheStore("test_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "c.db"), time.Hour)
			require.NoError(t, err)
			return store
		},
		"memory": func(t *testing.T) contract.CacheStore {
			return NewMemoryStore()
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer func() { _ = store.Close() }()

			_, _, _, err := store.Get("missing")
			assert.ErrorIs(t, err, sql.ErrNoRows)

			require.NoError(t, store.Set("k", []byte("v1"), 1, 100))
			require.NoError(t, store.Set("k", []byte("v2"), 2, 200))
			require.NoError(t, store.Set("other", []byte("x"), 1, 50))

			value, version, ts, err := store.Get("k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), value)
			assert.Equal(t, 2, version)
			assert.Equal(t, int64(200), ts)

			status, err := store.GetStatus()
			require.NoError(t, err)
			assert.True(t, status.Connected)
			assert.Equal(t, 2, status.TotalEntries)
			assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
			assert.Equal(t, time.Unix(50, 0), status.OldestEntryTime)

			require.NoError(t, store.Clear())
			_, _, _, err = store.Get("k")
			assert.ErrorIs(t, err, sql.ErrNoRows)
		})
	}
}

func TestNoneCacheStore(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "", 0)
	require.NoError(t, err)

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get on none backend")

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789))
	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get after Set on none backend")

	assert.NoError(t, store.Clear())
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, "", time.Hour)
	assert.Error(t, err)

	_, err = NewCacheStore("ok", "oracle", "", time.Hour)
	assert.ErrorContains(t, err, "unsupported cache backend")

	_, err = NewCacheStore("ok", schema.RedisBackend, "not a url", time.Hour)
	assert.Error(t, err)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Set("k", value, 1, 1))
	value[0] = 'z'

	got, _, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	got[1] = 'z'

	again, _, _, _ := store.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestClearCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(resultTable, schema.SQLiteBackend, path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.MemoryBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache("oracle", "", ""))

	assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))
	assert.Error(t, ClearAnalysis(schema.RedisBackend, "", ""))
}
