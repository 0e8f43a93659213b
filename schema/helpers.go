package schema

import (
	"strings"
	"time"
)

// DayLayout is the canonical date-only representation used in output,
// cache keys and error messages.
const DayLayout = "2006-01-02"

// TruncateDay drops the time-of-day component of a timestamp, yielding
// midnight UTC of the same calendar date. Truncation, not rounding: an event
// at 23:59 still belongs to that day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day formats a timestamp as its canonical date-only string.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// monthKey returns the lowercase three-letter key for a month, used in
// one-hot column names.
func monthKey(m time.Month) string {
	return strings.ToLower(m.String()[:3])
}

// weekdayKey returns the lowercase three-letter key for a weekday.
func weekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// HolidayColumn builds the stable column name for a named holiday on a
// calendar, e.g. "hol_gb_good_friday".
func HolidayColumn(cal CalendarName, name string) string {
	return "hol_" + string(cal) + "_" + name
}
