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

// PrintTimelineResults outputs the dock timeline, dispatching based on the output format configured.
func PrintTimelineResults(series []schema.DailyDockCount, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTimeline(series, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTimeline(series, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printTimelineTable(series, cfg, duration); err != nil {
			return fmt.Errorf("error writing timeline table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForTimeline handles opening the file and calling the JSON writer.
func printJSONResultsForTimeline(series []schema.DailyDockCount, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, series)
	}, "Wrote JSON timeline results")
}

// printCSVResultsForTimeline handles opening the file and calling the CSV writer.
func printCSVResultsForTimeline(series []schema.DailyDockCount, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"date", "stations", "docks"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, row := range series {
				record := []string{
					row.Date.Format(schema.DayLayout),
					strconv.Itoa(row.Stations),
					strconv.Itoa(row.Docks),
				}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV timeline results")
}

// printTimelineTable prints the dock timeline in a three-column table.
func printTimelineTable(series []schema.DailyDockCount, cfg *contract.Config, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Date", "Stations", "Docks"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range series {
		data = append(data, []string{
			row.Date.Format(schema.DayLayout),
			strconv.Itoa(row.Stations),
			strconv.Itoa(row.Docks),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(series) > 0 {
		first, last := series[0], series[len(series)-1]
		fmt.Printf("Timeline spans %s to %s (%d days, ending at %d stations / %d docks) in %v. Cache backend: %s\n",
			first.Date.Format(schema.DayLayout), last.Date.Format(schema.DayLayout),
			len(series), last.Stations, last.Docks, duration, cfg.CacheBackend)
	}
	return nil
}
