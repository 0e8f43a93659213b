package iocache

import (
	"errors"
	"fmt"

	"github.com/velostat/velostat/internal/parquet"
)

// ExecuteDatasetExport performs the actual export of run tracking data to Parquet files.
func ExecuteDatasetExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the dataset store
	store := Manager.GetDatasetStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get dataset status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no dataset runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total pipeline runs: %d\n", status.TotalRuns)
	fmt.Printf("Total split records: %d\n", status.TableSizes[datasetSplitsTable])

	// Retrieve all runs
	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve dataset runs: %w", err)
	}

	// Retrieve all split summaries
	splits, err := store.ListSplits()
	if err != nil {
		return fmt.Errorf("failed to retrieve splits: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertDatasetRunRecords(runs)
	parquetSplits := parquet.ConvertSplitRecords(splits)

	// Write runs to Parquet
	runsFile := outputFile + ".dataset_runs.parquet"
	if err := parquet.WriteDatasetRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write dataset runs: %w", err)
	}
	fmt.Printf("Exported %d pipeline runs to: %s\n", len(parquetRuns), runsFile)

	// Write split summaries to Parquet
	splitsFile := outputFile + ".dataset_splits.parquet"
	if err := parquet.WriteDatasetSplitsParquet(parquetSplits, splitsFile); err != nil {
		return fmt.Errorf("failed to write splits: %w", err)
	}
	fmt.Printf("Exported %d split records to: %s\n", len(parquetSplits), splitsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
