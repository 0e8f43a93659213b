package schema

import "time"

// DatasetRunRecord represents a row from the velostat_dataset_runs table.
type DatasetRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRows     int32
	ConfigParams  *string
}

// SplitRecord represents a row from the velostat_dataset_splits table,
// summarizing one emitted partition of a pipeline run.
type SplitRecord struct {
	RunID         int64
	SplitName     string
	RowCount      int32
	StartDate     time.Time
	EndDate       time.Time
	UndefinedRows int32 // Rows whose hires-per-dock was undefined
}
