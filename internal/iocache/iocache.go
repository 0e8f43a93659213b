// Package iocache is for caching I/O calls and tracking dataset runs.
package iocache

import (
	"sync"

	"github.com/velostat/velostat/internal/contract"
)

// CacheStoreManager manages the station payload cache and the dataset store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	station      contract.CacheStore
	dataset      contract.DatasetStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStationStore returns the station payload CacheStore.
func (mgr *CacheStoreManager) GetStationStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.station
}

// GetDatasetStore returns the dataset run DatasetStore.
func (mgr *CacheStoreManager) GetDatasetStore() contract.DatasetStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.dataset
}
