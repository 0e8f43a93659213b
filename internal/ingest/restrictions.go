package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// restrictionColumns maps header names of the restrictions file onto flag
// setters. Column order in the file does not matter.
var restrictionColumns = map[string]func(*schema.RestrictionFlags, bool){
	"lockdown":         func(f *schema.RestrictionFlags, v bool) { f.Lockdown = v },
	"shops_shut":       func(f *schema.RestrictionFlags, v bool) { f.ShopsShut = v },
	"hospitality_shut": func(f *schema.RestrictionFlags, v bool) { f.HospitalityShut = v },
	"rule_of_six":      func(f *schema.RestrictionFlags, v bool) { f.RuleOfSix = v },
	"work_from_home":   func(f *schema.RestrictionFlags, v bool) { f.WorkFromHome = v },
}

// LoadRestrictions reads the COVID-restrictions CSV, keyed by DD/MM/YYYY
// dates. Every date present in the file gets PostCovid=true; dates missing
// from the file read as zero-value flags from the resulting table, which is
// how "restriction not in effect" is encoded.
func LoadRestrictions(path string) (*schema.RestrictionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open restrictions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readRestrictions(f)
}

func readRestrictions(r io.Reader) (*schema.RestrictionTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read restrictions header: %w", err)
	}

	dateCol := -1
	setters := make(map[int]func(*schema.RestrictionFlags, bool))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "date" {
			dateCol = i
			continue
		}
		if setter, ok := restrictionColumns[name]; ok {
			setters[i] = setter
		}
		// Unknown columns are ignored, the file carries commentary columns.
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("restrictions header %v has no date column", header)
	}
	if len(setters) == 0 {
		return nil, fmt.Errorf("restrictions header %v has no known restriction columns", header)
	}

	byDate := make(map[time.Time]schema.RestrictionFlags)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read restrictions row: %w", err)
		}

		date, err := contract.ParseDayMonthYear(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("restrictions line %d: %w", line, err)
		}
		if _, exists := byDate[date]; exists {
			return nil, fmt.Errorf("restrictions line %d: duplicate date %s", line, date.Format(schema.DayLayout))
		}

		flags := schema.RestrictionFlags{PostCovid: true}
		for i, setter := range setters {
			val, err := contract.ParseBoolFlag(row[i])
			if err != nil {
				return nil, fmt.Errorf("restrictions line %d column %q: %w", line, header[i], err)
			}
			setter(&flags, val)
		}
		byDate[date] = flags
	}

	return schema.NewRestrictionTable(byDate), nil
}
