package core

import (
	"time"

	"github.com/velostat/velostat/schema"
)

// Calendar resolves a fixed set of named holidays to dates for a given year.
// The holiday name ordering is stable, which keeps one-hot feature columns
// deterministic across subsets.
type Calendar struct {
	Name     schema.CalendarName
	Holidays []string
}

// WorldHolidays returns the minimal cross-market calendar: fixed-date
// holidays observed nearly everywhere.
func WorldHolidays() Calendar {
	return Calendar{
		Name:     schema.WorldCalendar,
		Holidays: []string{"new_year", "christmas"},
	}
}

// GBHolidays returns the England & Wales bank holiday calendar. Fixed-date
// holidays shift to the next weekday when they fall on a weekend; the
// moveable feasts are derived from Easter and first/last-Monday rules.
func GBHolidays() Calendar {
	return Calendar{
		Name: schema.GBCalendar,
		Holidays: []string{
			"new_year", "good_friday", "easter_monday",
			"early_may", "spring_bank", "summer_bank",
			"christmas", "boxing_day",
		},
	}
}

// Columns returns the stable feature column names for this calendar.
func (c Calendar) Columns() []string {
	cols := make([]string, 0, len(c.Holidays))
	for _, name := range c.Holidays {
		cols = append(cols, schema.HolidayColumn(c.Name, name))
	}
	return cols
}

// Resolve returns the observed date of a named holiday in the given year.
// The second return is false for names the calendar does not define.
func (c Calendar) Resolve(name string, year int) (time.Time, bool) {
	switch c.Name {
	case schema.WorldCalendar:
		switch name {
		case "new_year":
			return dayOf(year, time.January, 1), true
		case "christmas":
			return dayOf(year, time.December, 25), true
		}
	case schema.GBCalendar:
		switch name {
		case "new_year":
			return nextWeekday(dayOf(year, time.January, 1)), true
		case "good_friday":
			return easterSunday(year).AddDate(0, 0, -2), true
		case "easter_monday":
			return easterSunday(year).AddDate(0, 0, 1), true
		case "early_may":
			return firstMonday(year, time.May), true
		case "spring_bank":
			return lastMonday(year, time.May), true
		case "summer_bank":
			return lastMonday(year, time.August), true
		case "christmas":
			return gbChristmas(year), true
		case "boxing_day":
			return gbBoxingDay(year), true
		}
	}
	return time.Time{}, false
}

// IsExchangeClosed reports whether the London Stock Exchange is closed on a
// date: weekends plus England & Wales bank holidays.
func IsExchangeClosed(date time.Time) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return true
	}
	gb := GBHolidays()
	for _, name := range gb.Holidays {
		if d, ok := gb.Resolve(name, date.Year()); ok && d.Equal(schema.TruncateDay(date)) {
			return true
		}
	}
	return false
}

// easterSunday computes Easter Sunday for a year using the anonymous
// Gregorian computus.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return dayOf(year, time.Month(month), day)
}

func dayOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nextWeekday shifts a weekend date forward to the following Monday.
func nextWeekday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func firstMonday(year int, month time.Month) time.Time {
	d := dayOf(year, month, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func lastMonday(year int, month time.Month) time.Time {
	// Day zero of the next month is the last day of this one.
	d := dayOf(year, month+1, 0)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// gbChristmas returns the observed Christmas bank holiday. When 25 December
// falls on a weekend the substitute day is the following Monday.
func gbChristmas(year int) time.Time {
	d := dayOf(year, time.December, 25)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return dayOf(year, time.December, 27)
	}
	return d
}

// gbBoxingDay returns the observed Boxing Day bank holiday. When 26 December
// falls on a weekend the substitute day lands on the 28th, after the
// Christmas substitute.
func gbBoxingDay(year int) time.Time {
	d := dayOf(year, time.December, 26)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return dayOf(year, time.December, 28)
	}
	return d
}
