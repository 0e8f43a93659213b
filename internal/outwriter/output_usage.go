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

// PrintUsageResults outputs the joined usage series, dispatching based on the output format configured.
func PrintUsageResults(rows []schema.DailyHireRecord, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtBool := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForUsage(rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForUsage(rows, cfg, fmtFloat, fmtBool); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printUsageTable(rows, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing usage table output: %w", err)
		}
	}
	return nil
}

// UsageRowJSON mirrors schema.DailyHireRecord with a nullable ratio, since
// NaN is not representable in JSON. It is shared by the CLI JSON output and
// the MCP usage tool.
type UsageRowJSON struct {
	Date         string   `json:"date"`
	Hires        int      `json:"hires"`
	Docks        int      `json:"docks"`
	DocksKnown   bool     `json:"docks_known"`
	HiresPerDock *float64 `json:"hires_per_dock"` // null when undefined
	Defined      bool     `json:"defined"`
}

// UsageRowsJSON converts joined rows into their JSON-safe view.
func UsageRowsJSON(rows []schema.DailyHireRecord) []UsageRowJSON {
	out := make([]UsageRowJSON, 0, len(rows))
	for _, r := range rows {
		jr := UsageRowJSON{
			Date:       r.Date.Format(schema.DayLayout),
			Hires:      r.Hires,
			Docks:      r.Docks,
			DocksKnown: r.DocksKnown,
			Defined:    r.Defined,
		}
		if r.Defined {
			v := r.HiresPerDock
			jr.HiresPerDock = &v
		}
		out = append(out, jr)
	}
	return out
}

// printJSONResultsForUsage handles opening the file and calling the JSON writer.
func printJSONResultsForUsage(rows []schema.DailyHireRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, UsageRowsJSON(rows))
	}, "Wrote JSON usage results")
}

// printCSVResultsForUsage handles opening the file and calling the CSV writer.
func printCSVResultsForUsage(rows []schema.DailyHireRecord, cfg *contract.Config, fmtFloat func(float64) string, fmtBool func(bool) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"date", "hires", "docks", "docks_known", "hires_per_dock", "defined"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range rows {
				ratio := ""
				if r.Defined {
					ratio = fmtFloat(r.HiresPerDock)
				}
				record := []string{
					r.Date.Format(schema.DayLayout),
					strconv.Itoa(r.Hires),
					strconv.Itoa(r.Docks),
					fmtBool(r.DocksKnown),
					ratio,
					fmtBool(r.Defined),
				}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV usage results")
}

// printUsageTable prints the joined series in a five-column table with a
// coverage summary line.
func printUsageTable(rows []schema.DailyHireRecord, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Date", "Hires", "Docks", "Hires/Dock", "Defined"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	defined := 0
	var data [][]string
	for _, r := range rows {
		ratio := "-"
		if r.Defined {
			ratio = fmtFloat(r.HiresPerDock)
			defined++
		}
		data = append(data, []string{
			r.Date.Format(schema.DayLayout),
			strconv.Itoa(r.Hires),
			strconv.Itoa(r.Docks),
			ratio,
			strconv.FormatBool(r.Defined),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	share := DefinedShare(rows)
	fmt.Printf("Joined %d days (%d defined, coverage: %s) in %v. Cache backend: %s\n",
		len(rows), defined, contract.GetColorLabel(share), duration, cfg.CacheBackend)
	return nil
}

// DefinedShare returns the fraction of rows whose hires-per-dock is defined.
// An empty series counts as fully undefined.
func DefinedShare(rows []schema.DailyHireRecord) float64 {
	if len(rows) == 0 {
		return 0
	}
	defined := 0
	for _, r := range rows {
		if r.Defined {
			defined++
		}
	}
	return float64(defined) / float64(len(rows))
}
