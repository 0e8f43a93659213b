package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// Accepted header names for the two hire-count columns. The workbook ranges
// label them differently (e.g. "Day" vs "Month" vs "Year" for the date, and
// "Number of Bicycle Hires" for the count); all are renamed to the canonical
// (date, n) pair at load.
var (
	hireDateHeaders  = []string{"date", "day", "month", "year"}
	hireCountHeaders = []string{"n", "number of bicycle hires", "hires", "count"}
)

// LoadHires reads a hire-count CSV at the given granularity. The first row
// must be a header naming a date column and a count column; extra columns are
// ignored. Rows are returned sorted ascending by date. Parsing is strict: a
// single bad row fails the load, there is no skip-and-count here because a
// missing period would silently corrupt the joined series.
func LoadHires(path string, granularity schema.Granularity) ([]schema.HireCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hires file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readHires(f, granularity)
}

func readHires(r io.Reader, granularity schema.Granularity) ([]schema.HireCount, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read hires header: %w", err)
	}

	dateCol := findColumn(header, hireDateHeaders)
	countCol := findColumn(header, hireCountHeaders)
	if dateCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("hires header %v has no recognizable date and count columns", header)
	}

	var counts []schema.HireCount
	seen := make(map[int64]bool)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read hires row: %w", err)
		}

		date, err := contract.ParseHireDate(row[dateCol], granularity)
		if err != nil {
			return nil, fmt.Errorf("hires line %d: %w", line, err)
		}
		n, err := parseHireCount(row[countCol])
		if err != nil {
			return nil, fmt.Errorf("hires line %d: %w", line, err)
		}
		if seen[date.Unix()] {
			return nil, fmt.Errorf("hires line %d: duplicate date %s", line, date.Format(schema.DayLayout))
		}
		seen[date.Unix()] = true

		counts = append(counts, schema.HireCount{Date: date, N: n})
	}

	sort.Slice(counts, func(i, j int) bool { return counts[i].Date.Before(counts[j].Date) })
	return counts, nil
}

// parseHireCount accepts integer counts and float cells that carry an exact
// integer, which the workbook export produces for some ranges.
func parseHireCount(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative hire count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable hire count %q", s)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral hire count %q", s)
	}
	return int(f), nil
}

// findColumn returns the index of the first header cell matching any of the
// candidate names, case-insensitively. Returns -1 when absent.
func findColumn(header []string, candidates []string) int {
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, want := range candidates {
			if cell == want {
				return i
			}
		}
	}
	return -1
}
