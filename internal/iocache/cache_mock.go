package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStationStore implements the CacheManager interface.
func (m *MockCacheManager) GetStationStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetDatasetStore implements the CacheManager interface.
func (m *MockCacheManager) GetDatasetStore() contract.DatasetStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DatasetStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockDatasetStore is a mock implementation of DatasetStore for testing.
type MockDatasetStore struct {
	mock.Mock
}

var _ contract.DatasetStore = &MockDatasetStore{} // Compile-time check

// BeginRun implements the DatasetStore interface.
func (m *MockDatasetStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the DatasetStore interface.
func (m *MockDatasetStore) EndRun(runID int64, endTime time.Time, totalRows int) error {
	args := m.Called(runID, endTime, totalRows)
	return args.Error(0)
}

// RecordSplit implements the DatasetStore interface.
func (m *MockDatasetStore) RecordSplit(runID int64, split schema.SplitRecord) error {
	args := m.Called(runID, split)
	return args.Error(0)
}

// ListRuns implements the DatasetStore interface.
func (m *MockDatasetStore) ListRuns() ([]schema.DatasetRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.DatasetRunRecord)
	return runs, args.Error(1)
}

// ListSplits implements the DatasetStore interface.
func (m *MockDatasetStore) ListSplits() ([]schema.SplitRecord, error) {
	args := m.Called()
	splits, _ := args.Get(0).([]schema.SplitRecord)
	return splits, args.Error(1)
}

// Close implements the DatasetStore interface.
func (m *MockDatasetStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the DatasetStore interface.
func (m *MockDatasetStore) GetStatus() (schema.DatasetStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.DatasetStatus), args.Error(1)
}
