package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func TestFeatureRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(FeatureRow))
	require.NotNil(t, pqSchema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"date",
		"hires",
		"docks",
		"docks_known",
		"hires_per_dock",
		"defined",
		"year",
		"month",
		"iso_week",
		"weekday",
		"month_jan",
		"month_dec",
		"weekday_mon",
		"weekday_sun",
		"hol_world_new_year",
		"hol_gb_good_friday",
		"hol_gb_boxing_day",
		"exchange_closed",
		"lockdown",
		"postcovid",
		"date_index",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestDatasetRunStructTags(t *testing.T) {
	pqSchema := parquet.SchemaOf(new(DatasetRun))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_rows",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func sampleDataset() schema.FeatureDataset {
	return schema.FeatureDataset{
		Name: "train",
		HolidayColumns: []string{
			"hol_world_new_year", "hol_world_christmas",
			"hol_gb_new_year", "hol_gb_good_friday", "hol_gb_easter_monday",
			"hol_gb_early_may", "hol_gb_spring_bank", "hol_gb_summer_bank",
			"hol_gb_christmas", "hol_gb_boxing_day",
		},
		Rows: []schema.FeatureRow{
			{
				Date:         time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC),
				Hires:        8000,
				Docks:        21000,
				DocksKnown:   true,
				HiresPerDock: 8000.0 / 21000.0,
				Defined:      true,
				Year:         2020,
				Month:        time.December,
				ISOWeek:      52,
				Weekday:      time.Friday,
				Holidays: []bool{
					false, true,
					false, false, false,
					false, false, false,
					true, false,
				},
				ExchangeClosed: true,
				Restrictions:   schema.RestrictionFlags{Lockdown: true, PostCovid: true},
				DateIndex:      1.25,
			},
			{
				Date:         time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC),
				Hires:        500,
				Docks:        0,
				DocksKnown:   false,
				HiresPerDock: math.NaN(),
				Defined:      false,
				Year:         2010,
				Month:        time.March,
				ISOWeek:      9,
				Weekday:      time.Monday,
				Holidays:     make([]bool, 10),
				DateIndex:    -2.5,
			},
		},
	}
}

func TestConvertFeatureDataset(t *testing.T) {
	rows := ConvertFeatureDataset(sampleDataset())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, int32(8000), first.Hires)
	require.NotNil(t, first.HiresPerDock)
	assert.InDelta(t, 8000.0/21000.0, *first.HiresPerDock, 1e-9)
	assert.Equal(t, int32(12), first.Month)
	assert.Equal(t, 1.0, first.MonthDec)
	assert.Zero(t, first.MonthJan)
	assert.Equal(t, 1.0, first.WeekdayFri)
	assert.Zero(t, first.WeekdayMon)
	assert.True(t, first.HolWorldChristmas)
	assert.True(t, first.HolGBChristmas)
	assert.False(t, first.HolGBBoxingDay)
	assert.True(t, first.ExchangeClosed)
	assert.True(t, first.Lockdown)
	assert.True(t, first.PostCovid)

	// Undefined ratio converts to a null, never NaN
	second := rows[1]
	assert.Nil(t, second.HiresPerDock)
	assert.False(t, second.Defined)
	assert.Equal(t, 1.0, second.MonthMar)
	assert.Equal(t, 1.0, second.WeekdayMon)
	assert.False(t, second.HolWorldNewYear)
}

func TestWriteFeatureDatasetParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "train.parquet")

	ds := sampleDataset()
	require.NoError(t, WriteFeatureDatasetParquet(ds, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[FeatureRow](file)
	defer reader.Close()

	readData := make([]FeatureRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(ds.Rows), n)

	require.NotNil(t, readData[0].HiresPerDock)
	assert.InDelta(t, 8000.0/21000.0, *readData[0].HiresPerDock, 1e-9)
	assert.Nil(t, readData[1].HiresPerDock)
	assert.True(t, readData[0].HolGBChristmas)
	assert.InDelta(t, -2.5, readData[1].DateIndex, 1e-9)
}

func TestWriteDatasetRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "runs.parquet")

	now := time.Now()
	end := now.Add(time.Minute)
	durationMs := int32(60000)
	config := `{"train_frac":0.9}`

	data := []DatasetRun{
		{RunID: 1, StartTime: now, EndTime: &end, RunDurationMs: &durationMs, TotalRows: 4000, ConfigParams: &config},
		{RunID: 2, StartTime: now, EndTime: nil, RunDurationMs: nil, TotalRows: 0, ConfigParams: nil},
	}
	require.NoError(t, WriteDatasetRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[DatasetRun](file)
	defer reader.Close()

	readData := make([]DatasetRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)

	assert.Equal(t, int64(1), readData[0].RunID)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, end, *readData[0].EndTime, time.Nanosecond)
	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteDatasetSplitsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "splits.parquet")

	data := ConvertSplitRecords([]schema.SplitRecord{
		{
			RunID:         1,
			SplitName:     "train",
			RowCount:      3650,
			StartDate:     time.Date(2010, 7, 30, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2020, 7, 29, 0, 0, 0, 0, time.UTC),
			UndefinedRows: 3,
		},
	})
	require.NoError(t, WriteDatasetSplitsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[DatasetSplit](file)
	defer reader.Close()

	readData := make([]DatasetSplit, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "train", readData[0].SplitName)
	assert.Equal(t, int32(3650), readData[0].RowCount)
	assert.Equal(t, int32(3), readData[0].UndefinedRows)
}

func TestWriteFeatureDatasetParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty.parquet")

	require.NoError(t, WriteFeatureDatasetParquet(schema.FeatureDataset{Name: "holdout"}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteFeatureDatasetParquet_InvalidPath(t *testing.T) {
	err := WriteFeatureDatasetParquet(sampleDataset(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}
