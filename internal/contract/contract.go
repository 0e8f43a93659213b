// Package contract provides interfaces and shared utilities for velostat's
// internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/velostat/velostat/schema"
)

// StationClient defines the single operation needed to obtain raw station
// metadata. This allows the pipeline to be tested without hitting the TfL
// BikePoint API, and lets the cache layer sit in front of the network call.
type StationClient interface {
	// FetchRaw returns the raw JSON payload of the station list. The fetch
	// is atomic: any transport or read error discards the whole batch.
	FetchRaw(ctx context.Context) ([]byte, error)
}

// CacheManager defines the interface for managing the persistence stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetStationStore() CacheStore
	GetDatasetStore() DatasetStore
}

// CacheStore defines the interface for cached BikePoint payload storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// DatasetStore defines the interface for tracking pipeline runs and the
// split summaries they emit.
type DatasetStore interface {
	// BeginRun creates a new pipeline run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordSplit stores the summary of one emitted partition.
	RecordSplit(runID int64, split schema.SplitRecord) error

	// ListRuns returns all recorded runs, newest first.
	ListRuns() ([]schema.DatasetRunRecord, error)

	// ListSplits returns the split summaries of all recorded runs.
	ListSplits() ([]schema.SplitRecord, error)

	// GetStatus returns status information about the dataset store.
	GetStatus() (schema.DatasetStatus, error)

	// Close closes the underlying connection.
	Close() error
}
