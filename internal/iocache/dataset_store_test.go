package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func newSQLiteDatasetStore(t *testing.T) *DatasetStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "datasets.db")
	store, err := NewDatasetStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*DatasetStoreImpl)
}

func TestDatasetStoreRunLifecycle(t *testing.T) {
	store := newSQLiteDatasetStore(t)

	start := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"train_frac": 0.9})
	require.NoError(t, err)
	assert.Positive(t, runID)

	end := start.Add(3 * time.Second)
	require.NoError(t, store.EndRun(runID, end, 4000))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.EndTime)
	assert.True(t, run.EndTime.Equal(end))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(3000), *run.RunDurationMs)
	assert.Equal(t, int32(4000), run.TotalRows)
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, "train_frac")
}

func TestDatasetStoreListRunsNewestFirst(t *testing.T) {
	store := newSQLiteDatasetStore(t)

	base := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	first, err := store.BeginRun(base, nil)
	require.NoError(t, err)
	second, err := store.BeginRun(base.Add(time.Hour), nil)
	require.NoError(t, err)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)
}

func TestDatasetStoreRecordSplit(t *testing.T) {
	store := newSQLiteDatasetStore(t)

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)

	train := schema.SplitRecord{
		RunID:         runID,
		SplitName:     "train",
		RowCount:      3650,
		StartDate:     time.Date(2010, 7, 30, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2020, 7, 29, 0, 0, 0, 0, time.UTC),
		UndefinedRows: 0,
	}
	test := schema.SplitRecord{
		RunID:         runID,
		SplitName:     "test",
		RowCount:      365,
		StartDate:     time.Date(2020, 7, 30, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2021, 7, 29, 0, 0, 0, 0, time.UTC),
		UndefinedRows: 2,
	}
	require.NoError(t, store.RecordSplit(runID, train))
	require.NoError(t, store.RecordSplit(runID, test))

	splits, err := store.ListSplits()
	require.NoError(t, err)
	require.Len(t, splits, 2)

	// Ordered by (run_id, split_name): "test" sorts before "train".
	assert.Equal(t, "test", splits[0].SplitName)
	assert.Equal(t, int32(365), splits[0].RowCount)
	assert.Equal(t, int32(2), splits[0].UndefinedRows)
	assert.Equal(t, train.StartDate, splits[1].StartDate)
	assert.Equal(t, train.EndDate, splits[1].EndDate)
}

func TestDatasetStoreDuplicateSplitRejected(t *testing.T) {
	store := newSQLiteDatasetStore(t)

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)

	split := schema.SplitRecord{
		RunID:     runID,
		SplitName: "train",
		RowCount:  10,
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.RecordSplit(runID, split))
	assert.Error(t, store.RecordSplit(runID, split))
}

func TestDatasetStoreStatus(t *testing.T) {
	store := newSQLiteDatasetStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)

	start := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(runID, start.Add(time.Second), 1234))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 1234, status.TotalRows)
	assert.Equal(t, int64(1), status.TableSizes[datasetRunsTable])
	assert.Equal(t, int64(0), status.TableSizes[datasetSplitsTable])
}

func TestDatasetStoreNoneBackend(t *testing.T) {
	store, err := NewDatasetStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.EndRun(runID, time.Now(), 10))
	require.NoError(t, store.RecordSplit(runID, schema.SplitRecord{}))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
