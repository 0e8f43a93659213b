package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func TestMigrateDatasetsUpAndDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "datasets.db")

	// Migrate to latest
	require.NoError(t, MigrateDatasets(schema.SQLiteBackend, dbPath, -1))

	// Tables should exist afterwards
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, table := range []string{datasetRunsTable, datasetSplitsTable} {
		var name string
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		require.NoError(t, row.Scan(&name), table)
		assert.Equal(t, table, name)
	}
	require.NoError(t, db.Close())

	// Re-running is a no-op
	require.NoError(t, MigrateDatasets(schema.SQLiteBackend, dbPath, -1))

	// Roll all the way back
	require.NoError(t, MigrateDatasets(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrateDatasetsToVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "datasets.db")

	require.NoError(t, MigrateDatasets(schema.SQLiteBackend, dbPath, 1))

	// Index migration not applied yet at version 1
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	row := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_dataset_splits_run_id'")
	require.NoError(t, row.Scan(&count))
	assert.Zero(t, count)
}

func TestMigrateDatasetsRejectsNoneBackend(t *testing.T) {
	err := MigrateDatasets(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrateDatasetsRejectsUnknownBackend(t *testing.T) {
	err := MigrateDatasets(schema.DatabaseBackend("oracle"), "", -1)
	assert.Error(t, err)
}
