// main holds all of the core and entry logic for the velostat legacy CLI.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DayUsage represents the joined hire and capacity figures for a single day.
// It includes the raw hire count, the dock capacity reconstructed from station
// install dates, and the derived demand ratio used for ranking.
type DayUsage struct {
	Date       time.Time // Calendar day of the observation
	Hires      int       // Number of bicycle hires recorded that day
	Docks      int       // Dock capacity on that day (forward-filled)
	DocksKnown bool      // False when the day predates the dock timeline or the fill gap expired
	Ratio      float64   // Hires per dock (NaN when undefined)
	Defined    bool      // True when Ratio carries a usable value
}

// dockStep is one point of the cumulative dock capacity timeline.
type dockStep struct {
	Date  time.Time
	Docks int
}

// Config holds the runtime configuration for the join.
// It includes input locations, time range filters, and output parameters.
type Config struct {
	HiresPath    string    // Path to the daily hires CSV
	StationsPath string    // Path to the BikePoint snapshot JSON
	StartTime    time.Time // Start of time range filter (zero = no limit)
	EndTime      time.Time // End of time range filter (zero = no limit)
	ResultLimit  int       // Maximum number of days to show in results
	GapLimitDays int       // Max days to forward-fill dock counts (0 = unlimited)
	SortBy       string    // Ranking mode: "ratio" (default) or "date"
	Precision    int       // Decimal precision for the ratio column (1 or 2)
	Output       string    // Output format: "text" (default) or "csv"
	CSVFile      string    // Optional path to write CSV output directly
}

const (
	maxLimitDefault  = 400
	defaultLimit     = 10
	defaultPrecision = 2
)

// main is the entry point for the legacy usage analyzer.
// It parses command line flags, joins the hire series against the dock
// timeline, and outputs ranked results.
func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}

	timeline, skipped, err := loadDockTimeline(cfg.StationsPath)
	if err != nil {
		fmt.Println("❌ Cannot read stations snapshot:", err)
		os.Exit(1)
	}
	if skipped > 0 {
		fmt.Printf("⚠️  Skipped %d stations without a usable install date or dock count\n", skipped)
	}

	hires, err := loadHires(cfg.HiresPath)
	if err != nil {
		fmt.Println("❌ Cannot read hires CSV:", err)
		os.Exit(1)
	}
	if len(hires) == 0 {
		fmt.Println("⚠️  No hire rows found in the requested file.")
		return
	}

	days := joinUsage(hires, timeline, cfg.GapLimitDays)
	days = filterWindow(days, cfg.StartTime, cfg.EndTime)
	if len(days) == 0 {
		fmt.Println("⚠️  No days fall inside the requested window.")
		return
	}

	ranked := rankDays(days, cfg.SortBy, cfg.ResultLimit)
	printResults(ranked, cfg)
}

// parseFlags processes command line arguments and returns a Config struct.
// It uses the standard flag package to handle options for controlling the join.
// Returns an error if required arguments are missing or invalid.
func parseFlags() (*Config, error) {
	cfg := &Config{}

	// Define flags
	stations := flag.String("stations", "", "Path to a BikePoint snapshot JSON (required)")
	limit := flag.Int("limit", defaultLimit, fmt.Sprintf("Number of days to display (default: %d, max: %d)", defaultLimit, maxLimitDefault))
	startDate := flag.String("start", "", "Start date in ISO8601 format (e.g., 2020-01-01T00:00:00Z)")
	endDate := flag.String("end", "", "End date in ISO8601 format (defaults to no limit)")
	gapLimit := flag.Int("gap-limit", 0, "Max days to forward-fill dock counts across gaps (0 = unlimited)")
	sortBy := flag.String("sort", "ratio", "Ranking mode: ratio (busiest first) or date (chronological)")
	precision := flag.Int("precision", defaultPrecision, "Decimal precision for the ratio column (1 or 2)")
	output := flag.String("output", "text", "Output format: text (default) or csv")
	csvFile := flag.String("csv-file", "", "Optional path to write CSV output directly (overrides stdout)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <hires-csv>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return nil, fmt.Errorf("hires CSV path is required")
	}
	cfg.HiresPath = flag.Arg(0)

	if *stations == "" {
		return nil, fmt.Errorf("a stations snapshot is required (-stations)")
	}
	cfg.StationsPath = *stations

	if *limit > maxLimitDefault {
		return nil, fmt.Errorf("limit cannot exceed %d days", maxLimitDefault)
	}
	cfg.ResultLimit = *limit

	if *gapLimit < 0 {
		return nil, fmt.Errorf("gap limit cannot be negative")
	}
	cfg.GapLimitDays = *gapLimit

	cfg.SortBy = strings.ToLower(*sortBy)
	if cfg.SortBy != "ratio" && cfg.SortBy != "date" {
		return nil, fmt.Errorf("unknown sort mode %q", *sortBy)
	}

	if *precision < 1 {
		*precision = 1
	}
	if *precision > 2 {
		*precision = 2
	}
	cfg.Precision = *precision
	cfg.Output = strings.ToLower(*output)
	cfg.CSVFile = *csvFile

	// Parse start date if provided
	if *startDate != "" {
		t, err := time.Parse(time.RFC3339, *startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %v", err)
		}
		cfg.StartTime = t
	}

	// Parse end date if provided
	if *endDate != "" {
		t, err := time.Parse(time.RFC3339, *endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %v", err)
		}
		cfg.EndTime = t
	}

	return cfg, nil
}

// bikePoint mirrors the subset of the TfL BikePoint payload the legacy tool
// cares about. Dock counts and install dates live in additionalProperties.
type bikePoint struct {
	ID         string `json:"id"`
	Properties []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"additionalProperties"`
}

// loadDockTimeline parses a BikePoint snapshot and returns the cumulative dock
// capacity timeline sorted by date. Stations without a parseable NbDocks or
// InstallDate are counted as skipped rather than failing the whole run.
func loadDockTimeline(path string) ([]dockStep, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var points []bikePoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, 0, fmt.Errorf("invalid snapshot: %v", err)
	}

	deltas := make(map[time.Time]int)
	skipped := 0
	for _, p := range points {
		docks := 0
		var install time.Time
		for _, prop := range p.Properties {
			switch prop.Key {
			case "NbDocks":
				docks, _ = strconv.Atoi(strings.TrimSpace(prop.Value))
			case "InstallDate":
				// Epoch milliseconds, e.g. "1577836800000"
				if ms, err := strconv.ParseInt(strings.TrimSpace(prop.Value), 10, 64); err == nil && ms > 0 {
					install = time.UnixMilli(ms).UTC().Truncate(24 * time.Hour)
				}
			}
		}
		if docks <= 0 || install.IsZero() {
			skipped++
			continue
		}
		deltas[install] += docks
	}

	dates := make([]time.Time, 0, len(deltas))
	for d := range deltas {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	timeline := make([]dockStep, 0, len(dates))
	running := 0
	for _, d := range dates {
		running += deltas[d]
		timeline = append(timeline, dockStep{Date: d, Docks: running})
	}
	return timeline, skipped, nil
}

// loadHires reads a daily hire-count CSV. The first row must name a date
// column and a count column; both TfL export headers and plain date/count
// headers are accepted.
func loadHires(path string) ([]DayUsage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	dateCol, countCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "day", "date":
			dateCol = i
		case "number of bicycle hires", "hires", "count", "n":
			countCol = i
		}
	}
	if dateCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("header %v has no recognizable date and count columns", records[0])
	}

	layouts := []string{"2006-01-02", "02/01/2006"}
	var days []DayUsage
	for _, rec := range records[1:] {
		if dateCol >= len(rec) || countCol >= len(rec) {
			continue
		}
		var date time.Time
		parsed := false
		for _, layout := range layouts {
			if t, err := time.Parse(layout, strings.TrimSpace(rec[dateCol])); err == nil {
				date = t.UTC()
				parsed = true
				break
			}
		}
		if !parsed {
			return nil, fmt.Errorf("unparseable date %q", rec[dateCol])
		}
		count, err := strconv.Atoi(strings.TrimSpace(rec[countCol]))
		if err != nil {
			return nil, fmt.Errorf("unparseable count %q on %s", rec[countCol], rec[dateCol])
		}
		days = append(days, DayUsage{Date: date, Hires: count})
	}
	return days, nil
}

// joinUsage attaches a dock capacity to every hire day by forward-filling the
// most recent timeline step. Days before the first step stay unknown; when
// gapLimit is positive, a step older than gapLimit days no longer carries.
func joinUsage(days []DayUsage, timeline []dockStep, gapLimit int) []DayUsage {
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	joined := make([]DayUsage, len(days))
	next := 0
	var last *dockStep
	for i, d := range days {
		for next < len(timeline) && !timeline[next].Date.After(d.Date) {
			last = &timeline[next]
			next++
		}
		out := d
		out.Ratio = math.NaN()
		if last != nil {
			gapDays := int(d.Date.Sub(last.Date).Hours() / 24)
			if gapLimit == 0 || gapDays <= gapLimit {
				out.Docks = last.Docks
				out.DocksKnown = true
				if out.Docks > 0 {
					out.Ratio = float64(out.Hires) / float64(out.Docks)
					out.Defined = true
				}
			}
		}
		joined[i] = out
	}
	return joined
}

// filterWindow keeps only the days inside the [start, end] range.
// A zero bound means that side of the range is open.
func filterWindow(days []DayUsage, start, end time.Time) []DayUsage {
	var kept []DayUsage
	for _, d := range days {
		if !start.IsZero() && d.Date.Before(start) {
			continue
		}
		if !end.IsZero() && d.Date.After(end) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// rankDays sorts days by demand ratio in descending order (or by date when
// requested) and returns the top 'limit' days. If limit is greater than the
// number of days, all days are returned in sorted order.
func rankDays(days []DayUsage, sortBy string, limit int) []DayUsage {
	sorted := make([]DayUsage, len(days))
	copy(sorted, days)

	if sortBy == "date" {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	} else {
		sort.Slice(sorted, func(i, j int) bool {
			// Undefined ratios sink to the bottom
			if sorted[i].Defined != sorted[j].Defined {
				return sorted[i].Defined
			}
			if sorted[i].Ratio != sorted[j].Ratio {
				return sorted[i].Ratio > sorted[j].Ratio
			}
			return sorted[i].Date.Before(sorted[j].Date)
		})
	}

	if limit < len(sorted) {
		return sorted[:limit]
	}
	return sorted
}

// selectOutputFile returns the appropriate file handle for CSV output.
func selectOutputFile(cfg *Config) *os.File {
	if cfg.CSVFile != "" {
		if file, err := os.Create(cfg.CSVFile); err == nil {
			return file
		}
		fmt.Fprintf(os.Stderr, "warning: cannot open csv file %s: falling back to stdout\n", cfg.CSVFile)
	}
	return os.Stdout
}

// writeCSVResults writes the joined days in CSV format.
func writeCSVResults(w *csv.Writer, days []DayUsage, fmtRatio func(DayUsage) string) {
	// CSV header
	_ = w.Write([]string{"rank", "date", "hires", "docks", "docks_known", "hires_per_dock", "label"})
	for i, d := range days {
		rec := []string{
			strconv.Itoa(i + 1),
			d.Date.Format("2006-01-02"),
			strconv.Itoa(d.Hires),
			strconv.Itoa(d.Docks),
			strconv.FormatBool(d.DocksKnown),
			fmtRatio(d),
			labelDemand(d),
		}
		_ = w.Write(rec)
	}
}

// printResults outputs the joined days in a formatted table.
// For each day it shows rank, date, hire count, dock capacity and the
// demand label derived from the hires-per-dock ratio.
func printResults(days []DayUsage, cfg *Config) {
	precision := cfg.Precision

	// closure to format ratios with the configured precision
	fmtRatio := func(d DayUsage) string {
		if !d.Defined {
			return ""
		}
		return strconv.FormatFloat(d.Ratio, 'f', precision, 64)
	}

	// If CSV output requested, skip printing the human-readable table
	if cfg.Output == "csv" {
		file := selectOutputFile(cfg)
		w := csv.NewWriter(file)
		writeCSVResults(w, days, fmtRatio)
		w.Flush()
		if file != os.Stdout {
			_ = file.Close()
			fmt.Fprintf(os.Stderr, "wrote CSV to %s\n", cfg.CSVFile)
		}
		return
	}

	headers := []string{"Rank", "Date", "Hires", "Docks", "Known", "Hires/Dock", "Label"}

	// Compute column widths from headers and data
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	rows := make([][]string, len(days))
	for i, d := range days {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			d.Date.Format("2006-01-02"),
			strconv.Itoa(d.Hires),
			strconv.Itoa(d.Docks),
			strconv.FormatBool(d.DocksKnown),
			fmtRatio(d),
			labelDemand(d),
		}
		for j, cell := range rows[i] {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	// Build format strings dynamically: rank and numerics right-aligned,
	// date and label left-aligned
	fmts := []string{
		fmt.Sprintf("%%%ds", widths[0]),
		fmt.Sprintf("%%-%ds", widths[1]),
		fmt.Sprintf("%%%ds", widths[2]),
		fmt.Sprintf("%%%ds", widths[3]),
		fmt.Sprintf("%%-%ds", widths[4]),
		fmt.Sprintf("%%%ds", widths[5]),
		fmt.Sprintf("%%-%ds", widths[6]),
	}

	var headerParts []string
	for i, h := range headers {
		headerParts = append(headerParts, fmt.Sprintf(fmts[i], h))
	}
	sepParts := make([]string, len(headers))
	for i := range headers {
		sepParts[i] = strings.Repeat("-", widths[i])
	}

	fmt.Println(strings.Join(headerParts, "  "))
	fmt.Println(strings.Join(sepParts, "  "))

	for _, row := range rows {
		var parts []string
		for j, cell := range row {
			parts = append(parts, fmt.Sprintf(fmts[j], cell))
		}
		fmt.Println(strings.Join(parts, "  "))
	}
}

// labelDemand returns a text label indicating the demand pressure
// based on the day's hires-per-dock ratio:
// - Heavy (≥2.0)
// - Busy (≥1.5)
// - Normal (≥1.0)
// - Quiet (<1.0)
func labelDemand(d DayUsage) string {
	if !d.Defined {
		return "Unknown"
	}
	switch {
	case d.Ratio >= 2.0:
		return "Heavy"
	case d.Ratio >= 1.5:
		return "Busy"
	case d.Ratio >= 1.0:
		return "Normal"
	default:
		return "Quiet"
	}
}
