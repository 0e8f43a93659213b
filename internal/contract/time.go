package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/velostat/velostat/schema"
)

// dayMonthYearLayout is the date format of the restrictions file and of the
// source workbook's daily range.
const dayMonthYearLayout = "02/01/2006"

// hireDateLayouts are the accepted date formats for hire-count rows, tried
// in order. The workbook export is not consistent across ranges.
var hireDateLayouts = []string{
	schema.DayLayout,   // 2006-01-02
	dayMonthYearLayout, // 02/01/2006
	"Jan 2006",         // monthly range labels, e.g. "Jul 2010"
	"January 2006",
}

// ParseDayMonthYear parses a DD/MM/YYYY date into midnight UTC.
func ParseDayMonthYear(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayMonthYearLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid DD/MM/YYYY date %q: %w", s, err)
	}
	return t, nil
}

// ParseHireDate parses a date cell from a hire-count range. Yearly rows may
// carry a bare year number; everything else goes through the known layouts.
func ParseHireDate(s string, granularity schema.Granularity) (time.Time, error) {
	s = strings.TrimSpace(s)

	if granularity == schema.YearlyGranularity {
		if year, err := strconv.Atoi(s); err == nil {
			if year < 1900 || year > 2200 {
				return time.Time{}, fmt.Errorf("implausible year %d", year)
			}
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
		}
	}

	for _, layout := range hireDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return schema.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseBoolFlag interprets the boolean-like cells of the restrictions file.
// Empty cells read as false, matching "restriction not in effect".
func ParseBoolFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("unrecognized boolean value %q", s)
}
