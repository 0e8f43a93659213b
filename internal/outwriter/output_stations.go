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

// PrintStationResults outputs the extraction results, dispatching based on the output format configured.
func PrintStationResults(result schema.ExtractionResult, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForStations(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForStations(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printStationTable(result, cfg, duration); err != nil {
			return fmt.Errorf("error writing station table output: %w", err)
		}
	}
	return nil
}

// stationEventsJSON is the JSON rendering of the extraction results.
type stationEventsJSON struct {
	Installs       []stationEventJSON `json:"installs"`
	Removals       []stationEventJSON `json:"removals"`
	TotalRecords   int                `json:"total_records"`
	MissingInstall int                `json:"missing_install"`
	Malformed      int                `json:"malformed"`
}

type stationEventJSON struct {
	StationID string `json:"station_id"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Docks     int    `json:"docks"`
}

func toStationEventsJSON(events []schema.StationEvent) []stationEventJSON {
	out := make([]stationEventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, stationEventJSON{
			StationID: e.StationID,
			Type:      string(e.Type),
			Date:      e.Date.Format(schema.DayLayout),
			Docks:     e.Docks,
		})
	}
	return out
}

// printJSONResultsForStations handles opening the file and calling the JSON writer.
func printJSONResultsForStations(result schema.ExtractionResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, stationEventsJSON{
			Installs:       toStationEventsJSON(result.Installs),
			Removals:       toStationEventsJSON(result.Removals),
			TotalRecords:   result.TotalRecords,
			MissingInstall: result.MissingInstall,
			Malformed:      result.Malformed,
		})
	}, "Wrote JSON station results")
}

// printCSVResultsForStations handles opening the file and calling the CSV writer.
func printCSVResultsForStations(result schema.ExtractionResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"station_id", "type", "date", "docks"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, events := range [][]schema.StationEvent{result.Installs, result.Removals} {
				for _, e := range events {
					row := []string{
						e.StationID,
						string(e.Type),
						e.Date.Format(schema.DayLayout),
						strconv.Itoa(e.Docks),
					}
					if err := csvWriter.Write(row); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}, "Wrote CSV station results")
}

// printStationTable prints install and removal events in a four-column table.
func printStationTable(result schema.ExtractionResult, cfg *contract.Config, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Station", "Event", "Date", "Docks"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, events := range [][]schema.StationEvent{result.Installs, result.Removals} {
		for _, e := range events {
			row := []string{
				contract.TruncateName(e.StationID, maxWidth),
				string(e.Type),
				e.Date.Format(schema.DayLayout),
				strconv.Itoa(e.Docks),
			}
			data = append(data, row)
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Extracted %d installs and %d removals from %d records in %v (skipped: %d missing install, %d malformed). Cache backend: %s\n",
		len(result.Installs), len(result.Removals), result.TotalRecords, duration,
		result.MissingInstall, result.Malformed, cfg.CacheBackend)
	return nil
}
