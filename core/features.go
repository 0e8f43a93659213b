package core

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/velostat/velostat/schema"
)

// Sentinel errors for feature building preconditions.
var (
	// ErrNotFitted is returned when Transform is called before Fit.
	ErrNotFitted = errors.New("feature builder is not fitted")

	// ErrRefitAfterTransform is returned when Fit is called again after
	// transform passes have begun; refitting would silently change the
	// normalization applied to earlier outputs.
	ErrRefitAfterTransform = errors.New("feature builder already applied; refusing to refit")

	// ErrUnsorted is returned when an input series is not sorted ascending
	// by date. Ordering is a correctness precondition, not best-effort.
	ErrUnsorted = errors.New("input rows are not sorted ascending by date")
)

// FeatureBuilder derives calendar, holiday and restriction features from
// joined daily hire rows. It is a two-phase object: Fit computes the date
// index normalization statistics from the training subset only, Transform
// applies the stored statistics to any subset. This split is what keeps
// future information out of the training partition.
//
// The builder is not safe for concurrent use; it assumes a single writer.
type FeatureBuilder struct {
	calendars    []Calendar
	restrictions *schema.RestrictionTable
	holidayCols  []string

	fitted      bool
	transformed bool
	mean        float64
	scale       float64
}

// NewFeatureBuilder creates a builder over the given holiday calendars and
// restriction table. A nil restrictions table means no restriction data, in
// which case all restriction flags come out false.
func NewFeatureBuilder(calendars []Calendar, restrictions *schema.RestrictionTable) *FeatureBuilder {
	var cols []string
	for _, cal := range calendars {
		cols = append(cols, cal.Columns()...)
	}
	return &FeatureBuilder{
		calendars:    calendars,
		restrictions: restrictions,
		holidayCols:  cols,
	}
}

// HolidayColumns returns the stable ordering of holiday indicator columns
// shared by every dataset this builder produces.
func (b *FeatureBuilder) HolidayColumns() []string {
	return b.holidayCols
}

// Fit computes the mean and scale of the numeric date index from the training
// rows. It fails on unsorted input, and on builders that have already begun
// transforming.
func (b *FeatureBuilder) Fit(train []schema.DailyHireRecord) error {
	if b.transformed {
		return ErrRefitAfterTransform
	}
	if err := checkSorted(train); err != nil {
		return err
	}
	if len(train) == 0 {
		return errors.New("cannot fit on an empty training subset")
	}

	idx := make([]float64, len(train))
	for i, row := range train {
		idx[i] = rawDateIndex(row.Date)
	}
	mean, std := stat.MeanStdDev(idx, nil)
	if !(std > 0) {
		// Degenerate single-date subset; identity scale keeps the
		// transform well defined.
		std = 1
	}
	b.mean = mean
	b.scale = std
	b.fitted = true
	return nil
}

// Transform derives a named feature dataset from joined rows using the fitted
// statistics. The input must be sorted ascending by date.
func (b *FeatureBuilder) Transform(name string, rows []schema.DailyHireRecord) (schema.FeatureDataset, error) {
	if !b.fitted {
		return schema.FeatureDataset{}, ErrNotFitted
	}
	if err := checkSorted(rows); err != nil {
		return schema.FeatureDataset{}, err
	}
	b.transformed = true

	resolved := newHolidayResolver(b.calendars)
	out := make([]schema.FeatureRow, 0, len(rows))
	for _, row := range rows {
		// ISO year can differ from the calendar year near boundaries; the
		// year feature uses the calendar year.
		_, week := row.Date.ISOWeek()

		fr := schema.FeatureRow{
			Date:         row.Date,
			Hires:        row.Hires,
			Docks:        row.Docks,
			DocksKnown:   row.DocksKnown,
			HiresPerDock: row.HiresPerDock,
			Defined:      row.Defined,
			Year:         row.Date.Year(),
			Month:        row.Date.Month(),
			ISOWeek:      week,
			Weekday:      row.Date.Weekday(),
			Holidays:     resolved.flags(row.Date),
			Restrictions: b.restrictions.Lookup(row.Date),
			DateIndex:    (rawDateIndex(row.Date) - b.mean) / b.scale,
		}
		fr.ExchangeClosed = IsExchangeClosed(row.Date)
		out = append(out, fr)
	}

	return schema.FeatureDataset{
		Name:           name,
		Rows:           out,
		HolidayColumns: b.holidayCols,
	}, nil
}

// rawDateIndex is the unnormalized numeric date index: whole days since the
// Unix epoch.
func rawDateIndex(date time.Time) float64 {
	return float64(date.Unix()) / 86400.0
}

// checkSorted verifies a joined series is strictly ascending by date.
func checkSorted(rows []schema.DailyHireRecord) error {
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.After(rows[i-1].Date) {
			return fmt.Errorf("%w: row %d (%s) does not follow row %d (%s)",
				ErrUnsorted, i, schema.Day(rows[i].Date), i-1, schema.Day(rows[i-1].Date))
		}
	}
	return nil
}

// holidayResolver memoizes per-year holiday dates so transforming long series
// does not recompute the computus for every row.
type holidayResolver struct {
	calendars []Calendar
	byYear    map[int]map[string]time.Time
}

func newHolidayResolver(calendars []Calendar) *holidayResolver {
	return &holidayResolver{
		calendars: calendars,
		byYear:    make(map[int]map[string]time.Time),
	}
}

// flags returns the holiday indicators for a date, aligned with the
// concatenated calendar column ordering.
func (r *holidayResolver) flags(date time.Time) []bool {
	year := date.Year()
	dates, ok := r.byYear[year]
	if !ok {
		dates = make(map[string]time.Time)
		for _, cal := range r.calendars {
			for _, name := range cal.Holidays {
				if d, found := cal.Resolve(name, year); found {
					dates[schema.HolidayColumn(cal.Name, name)] = d
				}
			}
		}
		r.byYear[year] = dates
	}

	var out []bool
	for _, cal := range r.calendars {
		for _, name := range cal.Holidays {
			d, found := dates[schema.HolidayColumn(cal.Name, name)]
			out = append(out, found && d.Equal(date))
		}
	}
	return out
}
