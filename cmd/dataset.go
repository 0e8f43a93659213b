package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/internal/iocache"
	"github.com/velostat/velostat/schema"
)

// datasetSetup loads minimal configuration needed for dataset operations.
// This is used by commands that need run tracking access without full shared setup.
func datasetSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get dataset-related config values
	backendStr := viper.GetString("dataset-backend")
	connStr := viper.GetString("dataset-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no payload cache for dataset commands)
	if err := iocache.InitCaching(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.DatasetBackend = backend
	cfg.DatasetDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// datasetSetupWrapper wraps datasetSetup to provide PreRunE for dataset commands.
func datasetSetupWrapper(_ *cobra.Command, _ []string) error {
	return datasetSetup()
}

// datasetMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func datasetMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get dataset-related config values
	backendStr := viper.GetString("dataset-backend")
	connStr := viper.GetString("dataset-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDatasetDBFilePath()
	}

	cfg.DatasetBackend = backend
	cfg.DatasetDBConnect = connStr

	return nil
}

// datasetMigrateSetupWrapper wraps datasetMigrateSetup to provide PreRunE for migrate command.
func datasetMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return datasetMigrateSetup()
}

// datasetCmd focused on run tracking data management.
//
// Note: Dataset subcommands use minimal initialization (datasetSetup) instead
// of the full sharedSetup used by pipeline commands. This avoids input file
// validation and complex config processing for simple tracking operations.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage pipeline run tracking and exports",
	Long: `Manage the historical record of feature pipeline runs.

When enabled, velostat tracks every 'features' run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-partition summaries (row counts, date spans, undefined rows)

This enables comparing dataset builds over time and exporting the history
for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  velostat dataset status

  # Export for analysis in pandas/DuckDB
  velostat dataset export --output-file dataset-history.parquet`,
}

// datasetClearCmd clears the run tracking data.
var datasetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all pipeline run tracking data",
	Long: `Delete all stored pipeline runs and partition summaries.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  velostat dataset export --output-file backup.parquet
  velostat dataset clear`,
	PreRunE: datasetSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearDatasets(cfg.DatasetBackend, contract.GetDatasetDBFilePath(), cfg.DatasetDBConnect); err != nil {
			contract.LogFatal("Failed to clear dataset tracking data", err)
		}
		fmt.Println("Dataset tracking data cleared successfully.")
	},
}

// datasetStatusCmd shows run tracking status.
var datasetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about pipeline run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total rows emitted across all runs
- Database table sizes

Examples:
  # Check run tracking status
  velostat dataset status`,
	PreRunE: datasetSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetDatasetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get dataset status", err)
		}
		iocache.PrintDatasetStatus(status)
	},
}

// datasetExportCmd exports run tracking data to Parquet files.
var datasetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run tracking data to Parquet format.

Exports two datasets:
- Pipeline runs - metadata about each 'features' execution
- Split summaries - per-partition row counts and date spans

Requires: --output-file parameter

Examples:
  # Export all data
  velostat dataset export --output-file velostat-history.parquet

  # Use with DuckDB for analysis
  velostat dataset export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.dataset_runs.parquet') LIMIT 10"`,
	PreRunE: datasetSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteDatasetExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export dataset tracking data", err)
		}
	},
}

// datasetMigrateCmd runs database migrations for the dataset store.
var datasetMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  velostat dataset migrate

  # Migrate to specific version
  velostat dataset migrate --target-version 1

  # Rollback to initial state
  velostat dataset migrate --target-version 0`,
	PreRunE: datasetMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateDatasets(cfg.DatasetBackend, cfg.DatasetDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
