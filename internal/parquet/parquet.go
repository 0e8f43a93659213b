// Package parquet provides data structures and functions for exporting
// velostat datasets to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/velostat/velostat/schema"
)

// FeatureRow is the Parquet projection of one feature-engineered row. The
// month and weekday categoricals are expanded over their full domains so
// every emitted file shares an identical schema regardless of which subset
// of dates it covers.
type FeatureRow struct {
	Date time.Time `parquet:"date,snappy"`

	Hires      int32 `parquet:"hires,snappy"`
	Docks      int32 `parquet:"docks,snappy"`
	DocksKnown bool  `parquet:"docks_known,snappy"`

	// HiresPerDock is null when the ratio is undefined; NaN never lands in
	// the emitted file.
	HiresPerDock *float64 `parquet:"hires_per_dock,optional,snappy"`
	Defined      bool     `parquet:"defined,snappy"`

	Year    int32 `parquet:"year,snappy"`
	Month   int32 `parquet:"month,snappy"`
	ISOWeek int32 `parquet:"iso_week,snappy"`
	Weekday int32 `parquet:"weekday,snappy"`

	MonthJan float64 `parquet:"month_jan,snappy"`
	MonthFeb float64 `parquet:"month_feb,snappy"`
	MonthMar float64 `parquet:"month_mar,snappy"`
	MonthApr float64 `parquet:"month_apr,snappy"`
	MonthMay float64 `parquet:"month_may,snappy"`
	MonthJun float64 `parquet:"month_jun,snappy"`
	MonthJul float64 `parquet:"month_jul,snappy"`
	MonthAug float64 `parquet:"month_aug,snappy"`
	MonthSep float64 `parquet:"month_sep,snappy"`
	MonthOct float64 `parquet:"month_oct,snappy"`
	MonthNov float64 `parquet:"month_nov,snappy"`
	MonthDec float64 `parquet:"month_dec,snappy"`

	WeekdayMon float64 `parquet:"weekday_mon,snappy"`
	WeekdayTue float64 `parquet:"weekday_tue,snappy"`
	WeekdayWed float64 `parquet:"weekday_wed,snappy"`
	WeekdayThu float64 `parquet:"weekday_thu,snappy"`
	WeekdayFri float64 `parquet:"weekday_fri,snappy"`
	WeekdaySat float64 `parquet:"weekday_sat,snappy"`
	WeekdaySun float64 `parquet:"weekday_sun,snappy"`

	HolWorldNewYear   bool `parquet:"hol_world_new_year,snappy"`
	HolWorldChristmas bool `parquet:"hol_world_christmas,snappy"`
	HolGBNewYear      bool `parquet:"hol_gb_new_year,snappy"`
	HolGBGoodFriday   bool `parquet:"hol_gb_good_friday,snappy"`
	HolGBEasterMonday bool `parquet:"hol_gb_easter_monday,snappy"`
	HolGBEarlyMay     bool `parquet:"hol_gb_early_may,snappy"`
	HolGBSpringBank   bool `parquet:"hol_gb_spring_bank,snappy"`
	HolGBSummerBank   bool `parquet:"hol_gb_summer_bank,snappy"`
	HolGBChristmas    bool `parquet:"hol_gb_christmas,snappy"`
	HolGBBoxingDay    bool `parquet:"hol_gb_boxing_day,snappy"`

	ExchangeClosed bool `parquet:"exchange_closed,snappy"`

	Lockdown        bool `parquet:"lockdown,snappy"`
	ShopsShut       bool `parquet:"shops_shut,snappy"`
	HospitalityShut bool `parquet:"hospitality_shut,snappy"`
	RuleOfSix       bool `parquet:"rule_of_six,snappy"`
	WorkFromHome    bool `parquet:"work_from_home,snappy"`
	PostCovid       bool `parquet:"postcovid,snappy"`

	DateIndex float64 `parquet:"date_index,snappy"`
}

// DatasetRun represents a single pipeline run with metadata.
// This struct maps to the velostat_dataset_runs database table.
type DatasetRun struct {
	// RunID is the unique identifier for this pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of dataset rows emitted by this run
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DatasetSplit represents the summary of one emitted partition.
// This struct maps to the velostat_dataset_splits database table.
type DatasetSplit struct {
	// RunID references the parent pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// SplitName is the partition name (train, test, holdout)
	SplitName string `parquet:"split_name,snappy"`

	// RowCount is the number of rows in the partition
	RowCount int32 `parquet:"row_count,snappy"`

	// StartDate is the first calendar date covered by the partition
	StartDate time.Time `parquet:"start_date,snappy"`

	// EndDate is the last calendar date covered by the partition
	EndDate time.Time `parquet:"end_date,snappy"`

	// UndefinedRows is the number of rows whose hires-per-dock was undefined
	UndefinedRows int32 `parquet:"undefined_rows,snappy"`
}

// WriteFeatureDatasetParquet writes one feature dataset to a Parquet file.
func WriteFeatureDatasetParquet(ds schema.FeatureDataset, outputPath string) error {
	return writeParquet(ConvertFeatureDataset(ds), outputPath)
}

// WriteDatasetRunsParquet writes a slice of DatasetRun structs to a Parquet file.
func WriteDatasetRunsParquet(data []DatasetRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDatasetSplitsParquet writes a slice of DatasetSplit structs to a Parquet file.
func WriteDatasetSplitsParquet(data []DatasetSplit, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates the output file and streams all records through a
// generic writer whose schema is inferred from the struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertFeatureDataset converts a schema.FeatureDataset into Parquet rows,
// expanding the one-hot categoricals and resolving the holiday indicator
// layout from the dataset's column ordering.
func ConvertFeatureDataset(ds schema.FeatureDataset) []FeatureRow {
	result := make([]FeatureRow, len(ds.Rows))
	for i, row := range ds.Rows {
		out := FeatureRow{
			Date:       row.Date,
			Hires:      int32(row.Hires),
			Docks:      int32(row.Docks),
			DocksKnown: row.DocksKnown,
			Defined:    row.Defined,

			Year:    int32(row.Year),
			Month:   int32(row.Month),
			ISOWeek: int32(row.ISOWeek),
			Weekday: int32(row.Weekday),

			ExchangeClosed: row.ExchangeClosed,

			Lockdown:        row.Restrictions.Lockdown,
			ShopsShut:       row.Restrictions.ShopsShut,
			HospitalityShut: row.Restrictions.HospitalityShut,
			RuleOfSix:       row.Restrictions.RuleOfSix,
			WorkFromHome:    row.Restrictions.WorkFromHome,
			PostCovid:       row.Restrictions.PostCovid,

			DateIndex: row.DateIndex,
		}

		if row.Defined {
			v := row.HiresPerDock
			out.HiresPerDock = &v
		}

		months := row.MonthOneHot()
		out.MonthJan, out.MonthFeb, out.MonthMar = months[0], months[1], months[2]
		out.MonthApr, out.MonthMay, out.MonthJun = months[3], months[4], months[5]
		out.MonthJul, out.MonthAug, out.MonthSep = months[6], months[7], months[8]
		out.MonthOct, out.MonthNov, out.MonthDec = months[9], months[10], months[11]

		weekdays := row.WeekdayOneHot()
		out.WeekdayMon, out.WeekdayTue, out.WeekdayWed = weekdays[0], weekdays[1], weekdays[2]
		out.WeekdayThu, out.WeekdayFri = weekdays[3], weekdays[4]
		out.WeekdaySat, out.WeekdaySun = weekdays[5], weekdays[6]

		out.HolWorldNewYear = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_world_new_year")
		out.HolWorldChristmas = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_world_christmas")
		out.HolGBNewYear = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_new_year")
		out.HolGBGoodFriday = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_good_friday")
		out.HolGBEasterMonday = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_easter_monday")
		out.HolGBEarlyMay = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_early_may")
		out.HolGBSpringBank = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_spring_bank")
		out.HolGBSummerBank = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_summer_bank")
		out.HolGBChristmas = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_christmas")
		out.HolGBBoxingDay = holidayFlag(ds.HolidayColumns, row.Holidays, "hol_gb_boxing_day")

		result[i] = out
	}
	return result
}

// holidayFlag resolves one named holiday indicator from a row's aligned flags.
func holidayFlag(columns []string, flags []bool, name string) bool {
	for i, col := range columns {
		if col == name && i < len(flags) {
			return flags[i]
		}
	}
	return false
}

// ConvertDatasetRunRecords converts schema.DatasetRunRecord to DatasetRun for Parquet export.
func ConvertDatasetRunRecords(records []schema.DatasetRunRecord) []DatasetRun {
	result := make([]DatasetRun, len(records))
	for i, record := range records {
		result[i] = DatasetRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSplitRecords converts schema.SplitRecord to DatasetSplit for Parquet export.
func ConvertSplitRecords(records []schema.SplitRecord) []DatasetSplit {
	result := make([]DatasetSplit, len(records))
	for i, record := range records {
		result[i] = DatasetSplit{
			RunID:         record.RunID,
			SplitName:     record.SplitName,
			RowCount:      record.RowCount,
			StartDate:     record.StartDate,
			EndDate:       record.EndDate,
			UndefinedRows: record.UndefinedRows,
		}
	}
	return result
}
