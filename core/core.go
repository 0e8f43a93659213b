package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/velostat/velostat/internal/bikepoint"
	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/internal/ingest"
	"github.com/velostat/velostat/internal/outwriter"
	"github.com/velostat/velostat/internal/parquet"
	"github.com/velostat/velostat/schema"
)

// ExecutorFunc defines the function signature for executing different pipeline stages.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteStations fetches station metadata, extracts dock lifecycle events
// and prints them. It serves as the main entry point for the 'stations' command.
func ExecuteStations(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetStationEventResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	ow := outwriter.NewOutWriter()
	return ow.WriteStations(result, cfg, duration)
}

// ExecuteTimeline builds the cumulative dock timeline and prints it.
// It serves as the main entry point for the 'timeline' command.
func ExecuteTimeline(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	timeline, err := GetTimelineResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	ow := outwriter.NewOutWriter()
	return ow.WriteTimeline(timeline, cfg, duration)
}

// ExecuteUsage joins daily hires against the dock timeline and prints the
// hires-per-dock series. It serves as the main entry point for the 'usage' command.
func ExecuteUsage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()

	joined, err := GetUsageResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	ow := outwriter.NewOutWriter()
	return ow.WriteUsage(joined, cfg, duration)
}

// ExecuteFeatures runs the full preparation pipeline and prints per-partition
// summaries. It serves as the main entry point for the 'features' command.
func ExecuteFeatures(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	datasets, err := GetFeatureResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	ow := outwriter.NewOutWriter()
	return ow.WriteFeatureSummary(datasets, cfg, duration)
}

// GetStationEventResults fetches station records from the configured source
// and extracts their install and removal events. Used by both the CLI
// commands and the MCP tools.
func GetStationEventResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ExtractionResult, error) {
	records, err := loadStations(ctx, cfg, mgr)
	if err != nil {
		return schema.ExtractionResult{}, err
	}
	return ExtractStationEvents(records), nil
}

// GetTimelineResults builds the cumulative dock timeline from the extracted
// station events.
func GetTimelineResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.DailyDockCount, error) {
	result, err := GetStationEventResults(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return BuildDockTimeline(result.Installs, result.Removals)
}

// GetUsageResults loads hires and the dock timeline and joins them into the
// daily hires-per-dock series.
func GetUsageResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.DailyHireRecord, error) {
	if cfg.Granularity != schema.DailyGranularity {
		return nil, fmt.Errorf("usage normalization requires daily hires, got granularity %q", cfg.Granularity)
	}

	hires, err := ingest.LoadHires(cfg.HiresFile, cfg.Granularity)
	if err != nil {
		return nil, err
	}
	if len(hires) == 0 {
		return nil, errors.New("hires file has no data rows")
	}

	timeline, err := GetTimelineResults(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}

	policy := FillPolicy{GapLimitDays: cfg.FillGapLimit}
	return NormalizeUsage(hires, timeline, policy), nil
}

// GetFeatureResults runs the full preparation pipeline: join, chronological
// split, leakage-safe feature engineering, dataset emission and run tracking.
// The returned datasets are what was written to the output directory.
func GetFeatureResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.FeatureDataset, error) {
	start := time.Now()

	joined, err := GetUsageResults(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}

	// Restrictions are optional; without a file every date reads as
	// unrestricted and pre-COVID.
	var restrictions *schema.RestrictionTable
	if cfg.RestrictionsFile != "" {
		restrictions, err = ingest.LoadRestrictions(cfg.RestrictionsFile)
		if err != nil {
			return nil, err
		}
	}

	partitions, err := planPartitions(joined, cfg.TrainFrac, cfg.HoldoutFrac)
	if err != nil {
		return nil, err
	}

	builder := NewFeatureBuilder([]Calendar{WorldHolidays(), GBHolidays()}, restrictions)
	if err := builder.Fit(partitions[0].rows); err != nil {
		return nil, err
	}

	datasets := make([]schema.FeatureDataset, 0, len(partitions))
	for _, p := range partitions {
		ds, err := builder.Transform(p.name, p.rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}

	// Track the run before emitting files so a failed write still shows up.
	store := mgr.GetDatasetStore()
	var runID int64
	if store != nil {
		runID, err = store.BeginRun(start.UTC(), map[string]any{
			"train_frac":     cfg.TrainFrac,
			"holdout_frac":   cfg.HoldoutFrac,
			"granularity":    string(cfg.Granularity),
			"fill_gap_limit": cfg.FillGapLimit,
			"output":         string(cfg.Output),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := emitDatasets(datasets, cfg); err != nil {
		return nil, err
	}

	if store != nil {
		totalRows := 0
		for _, ds := range datasets {
			totalRows += len(ds.Rows)
			summary := outwriter.SummarizeDataset(ds)
			if len(ds.Rows) == 0 {
				continue
			}
			split := schema.SplitRecord{
				RunID:         runID,
				SplitName:     ds.Name,
				RowCount:      int32(len(ds.Rows)),
				StartDate:     ds.Rows[0].Date,
				EndDate:       ds.Rows[len(ds.Rows)-1].Date,
				UndefinedRows: int32(summary.UndefinedRows),
			}
			if err := store.RecordSplit(runID, split); err != nil {
				return nil, err
			}
		}
		if err := store.EndRun(runID, time.Now().UTC(), totalRows); err != nil {
			return nil, err
		}
	}

	return datasets, nil
}

// loadStations returns raw station records either from the BikePoint API
// (through the payload cache) or from a local JSON snapshot.
func loadStations(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.StationRecord, error) {
	var payload []byte
	var err error

	switch cfg.Source {
	case schema.FileSource:
		payload, err = os.ReadFile(cfg.StationsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read stations file: %w", err)
		}
	default: // API
		client := bikepoint.NewClient(cfg.APIBaseURL, cfg.APITimeout)
		payload, err = cachedFetchStations(ctx, cfg, client, mgr)
		if err != nil {
			return nil, err
		}
	}

	return bikepoint.ParseStations(payload)
}

// partition pairs a split name with its chronological slice of rows.
type partition struct {
	name string
	rows []schema.DailyHireRecord
}

// planPartitions cuts the joined series into train/test and, when a holdout
// fraction is configured, carves the holdout off the far end of the series.
// The training partition always comes first.
func planPartitions(rows []schema.DailyHireRecord, trainFrac, holdoutFrac float64) ([]partition, error) {
	train, rest, err := SplitHires(rows, trainFrac)
	if err != nil {
		return nil, err
	}

	if holdoutFrac <= 0 {
		return []partition{{"train", train}, {"test", rest}}, nil
	}

	// The holdout fraction is expressed against the full series, so rescale
	// it to the remainder before the second cut.
	restFrac := 1 - trainFrac
	if holdoutFrac >= restFrac {
		return nil, fmt.Errorf("holdout fraction %g leaves no test rows after train fraction %g", holdoutFrac, trainFrac)
	}
	testShare := (restFrac - holdoutFrac) / restFrac
	test, holdout, err := SplitHires(rest, testShare)
	if err != nil {
		return nil, err
	}
	return []partition{{"train", train}, {"test", test}, {"holdout", holdout}}, nil
}

// emitDatasets writes each partition to a file in the configured output
// directory. Parquet is the default; CSV is available for spreadsheet use.
// The text and JSON output modes print summaries only and emit no files.
func emitDatasets(datasets []schema.FeatureDataset, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.ParquetOut:
		for _, ds := range datasets {
			path := filepath.Join(cfg.OutDir, ds.Name+".parquet")
			if err := parquet.WriteFeatureDatasetParquet(ds, path); err != nil {
				return err
			}
		}
	case schema.CSVOut:
		for _, ds := range datasets {
			path := filepath.Join(cfg.OutDir, ds.Name+".csv")
			if err := outwriter.WriteFeatureDatasetCSV(ds, path, cfg.Precision); err != nil {
				return err
			}
		}
	}
	return nil
}
