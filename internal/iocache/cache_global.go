package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// stationTable is the name of the table for BikePoint payload caching.
const stationTable = "bikepoint_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetDatasetDBFilePath returns the path to the SQLite DB file for dataset storage.
func GetDatasetDBFilePath() string {
	return contract.GetDatasetDBFilePath()
}

// InitCaching initializes the global cache manager with separate station and dataset stores.
// cacheBackend and cacheConnStr can be empty to disable payload caching.
// datasetBackend and datasetConnStr can be empty to disable run tracking.
func InitCaching(cacheBackend schema.DatabaseBackend, cacheConnStr string, datasetBackend schema.DatabaseBackend, datasetConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		// Initialize station payload store only if backend is configured
		var stationStore contract.CacheStore
		if cacheBackend != "" {
			stationStore, err = NewCacheStore(stationTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize station caching: %w", err)
				return
			}
		}

		// Initialize dataset store only if backend is configured
		var datasetStore contract.DatasetStore
		if datasetBackend != "" {
			datasetStore, err = NewDatasetStore(datasetBackend, datasetConnStr)
			if err != nil {
				if stationStore != nil {
					_ = stationStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize dataset store: %w", err)
				return
			}
		}

		// Assign to global manager
		Manager.station = stationStore
		Manager.dataset = datasetStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.station != nil {
			_ = Manager.station.Close()
		}
		if Manager.dataset != nil {
			_ = Manager.dataset.Close()
		}
	})
}

// ClearCache clears the payload cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, stationTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, stationTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearDatasets clears the dataset tracking data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the dataset tables.
// For NoneBackend, it does nothing.
func ClearDatasets(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		tables := []string{datasetRunsTable, datasetSplitsTable}
		for _, table := range tables {
			if err := clearSQLTable("mysql", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.PostgreSQLBackend:
		tables := []string{datasetRunsTable, datasetSplitsTable}
		for _, table := range tables {
			if err := clearSQLTable("pgx", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported dataset backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
