package iocache

import (
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

type memoryEntry struct {
	value   []byte
	version int
	ts      int64
}

// MemoryStore is a process-local CacheStore. Entries live until Clear or Close.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ contract.CacheStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get implements the CacheStore interface. A miss is sql.ErrNoRows.
func (ms *MemoryStore) Get(key string) ([]byte, int, int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	e, ok := ms.entries[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return slices.Clone(e.value), e.version, e.ts, nil
}

// Set implements the CacheStore interface.
func (ms *MemoryStore) Set(key string, value []byte, version int, timestamp int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[key] = memoryEntry{value: slices.Clone(value), version: version, ts: timestamp}
	return nil
}

// Clear implements the CacheStore interface.
func (ms *MemoryStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	clear(ms.entries)
	return nil
}

// GetStatus implements the CacheStore interface.
func (ms *MemoryStore) GetStatus() (schema.CacheStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	status := schema.CacheStatus{
		Backend:      string(schema.MemoryBackend),
		Connected:    true,
		TotalEntries: len(ms.entries),
	}
	var oldest, last int64
	for k, e := range ms.entries {
		if oldest == 0 || e.ts < oldest {
			oldest = e.ts
		}
		last = max(last, e.ts)
		status.TableSizeBytes += int64(len(k) + len(e.value))
	}
	if len(ms.entries) > 0 {
		status.LastEntryTime = time.Unix(last, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// Close implements the CacheStore interface.
func (ms *MemoryStore) Close() error {
	return ms.Clear()
}
