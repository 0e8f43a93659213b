package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func newSQLiteCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(stationTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStoreRoundTrip(t *testing.T) {
	store := newSQLiteCacheStore(t)

	payload := []byte(`[{"id":"BikePoints_1"}]`)
	ts := time.Now().Unix()
	require.NoError(t, store.Set("bikepoint", payload, 1, ts))

	got, version, gotTs, err := store.Get("bikepoint")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, version)
	assert.Equal(t, ts, gotTs)
}

func TestCacheStoreOverwrite(t *testing.T) {
	store := newSQLiteCacheStore(t)

	require.NoError(t, store.Set("bikepoint", []byte("old"), 1, 100))
	require.NoError(t, store.Set("bikepoint", []byte("new"), 2, 200))

	got, version, ts, err := store.Get("bikepoint")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)
}

func TestCacheStoreMissingKey(t *testing.T) {
	store := newSQLiteCacheStore(t)

	_, _, _, err := store.Get("unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(stationTable, schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Set is a no-op and Get always misses.
	require.NoError(t, store.Set("bikepoint", []byte("data"), 1, 100))
	_, _, _, err = store.Get("bikepoint")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestCacheStoreInvalidTableName(t *testing.T) {
	_, err := NewCacheStore("bad; DROP TABLE", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore("", schema.SQLiteBackend, "")
	assert.Error(t, err)
}

func TestCacheStoreUnsupportedBackend(t *testing.T) {
	_, err := NewCacheStore(stationTable, schema.DatabaseBackend("redis"), "")
	assert.Error(t, err)
}

func TestCacheStoreStatus(t *testing.T) {
	store := newSQLiteCacheStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	require.NoError(t, store.Set("a", []byte("1"), 1, 100))
	require.NoError(t, store.Set("b", []byte("2"), 1, 200))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(100, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("bikepoint_cache"))
	assert.NoError(t, validateTableName("_private"))
	assert.Error(t, validateTableName("1starts_with_digit"))
	assert.Error(t, validateTableName("has space"))
	assert.Error(t, validateTableName("has-dash"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
}
