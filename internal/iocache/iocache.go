// Package iocache holds the query result cache and the analysis run history.
package iocache

import (
	"errors"
	"sync"

	"github.com/huangsam/skillspot/internal/contract"
)

// CacheStoreManager owns the result cache and the analysis store for one process.
// Either store may be nil when its backend is disabled.
type CacheStoreManager struct {
	mu       sync.RWMutex
	result   contract.CacheStore
	analysis contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{}

// GetResultStore returns the result cache, or nil when caching is off.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.result
}

// GetAnalysisStore returns the analysis store, or nil when tracking is off.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.analysis
}

func (mgr *CacheStoreManager) set(result contract.CacheStore, analysis contract.AnalysisStore) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.result = result
	mgr.analysis = analysis
}

// Close closes both stores and detaches them from the manager.
func (mgr *CacheStoreManager) Close() error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	var errs []error
	if mgr.result != nil {
		errs = append(errs, mgr.result.Close())
	}
	if mgr.analysis != nil {
		errs = append(errs, mgr.analysis.Close())
	}
	mgr.result, mgr.analysis = nil, nil
	return errors.Join(errs...)
}
