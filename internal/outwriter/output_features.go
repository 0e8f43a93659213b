package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// FeatureSummary condenses one emitted partition for reporting.
type FeatureSummary struct {
	Name          string `json:"name"`
	Rows          int    `json:"rows"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	UndefinedRows int    `json:"undefined_rows"`
	Coverage      string `json:"coverage"`
}

// SummarizeDataset builds the report row for one feature dataset.
func SummarizeDataset(ds schema.FeatureDataset) FeatureSummary {
	summary := FeatureSummary{
		Name: ds.Name,
		Rows: len(ds.Rows),
	}
	if len(ds.Rows) == 0 {
		summary.Coverage = contract.GetPlainLabel(0)
		return summary
	}

	summary.StartDate = ds.Rows[0].Date.Format(schema.DayLayout)
	summary.EndDate = ds.Rows[len(ds.Rows)-1].Date.Format(schema.DayLayout)
	for _, row := range ds.Rows {
		if !row.Defined {
			summary.UndefinedRows++
		}
	}
	share := float64(len(ds.Rows)-summary.UndefinedRows) / float64(len(ds.Rows))
	summary.Coverage = contract.GetPlainLabel(share)
	return summary
}

// PrintFeatureSummaries outputs per-partition summaries, dispatching based on the output format configured.
func PrintFeatureSummaries(datasets []schema.FeatureDataset, cfg *contract.Config, duration time.Duration) error {
	summaries := make([]FeatureSummary, 0, len(datasets))
	for _, ds := range datasets {
		summaries = append(summaries, SummarizeDataset(ds))
	}

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForFeatures(summaries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForFeatures(summaries, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printFeatureTable(summaries, cfg, duration); err != nil {
			return fmt.Errorf("error writing feature table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForFeatures handles opening the file and calling the JSON writer.
func printJSONResultsForFeatures(summaries []FeatureSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, summaries)
	}, "Wrote JSON feature summaries")
}

// printCSVResultsForFeatures handles opening the file and calling the CSV writer.
func printCSVResultsForFeatures(summaries []FeatureSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"name", "rows", "start_date", "end_date", "undefined_rows", "coverage"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, s := range summaries {
				record := []string{
					s.Name,
					strconv.Itoa(s.Rows),
					s.StartDate,
					s.EndDate,
					strconv.Itoa(s.UndefinedRows),
					s.Coverage,
				}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV feature summaries")
}

// printFeatureTable prints partition summaries in a six-column table.
func printFeatureTable(summaries []FeatureSummary, cfg *contract.Config, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Partition", "Rows", "Start", "End", "Undefined", "Coverage"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	totalRows := 0
	var data [][]string
	for _, s := range summaries {
		totalRows += s.Rows
		share := 0.0
		if s.Rows > 0 {
			share = float64(s.Rows-s.UndefinedRows) / float64(s.Rows)
		}
		data = append(data, []string{
			s.Name,
			strconv.Itoa(s.Rows),
			s.StartDate,
			s.EndDate,
			strconv.Itoa(s.UndefinedRows),
			contract.GetColorLabel(share),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Prepared %d partitions (%d rows total) in %v. Cache backend: %s\n",
		len(summaries), totalRows, duration, cfg.CacheBackend)
	return nil
}
