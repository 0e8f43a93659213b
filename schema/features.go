package schema

import "time"

// RestrictionFlags holds the COVID-restriction indicators for one date.
// A date absent from the restrictions file carries all-false flags and
// PostCovid=false.
type RestrictionFlags struct {
	Lockdown        bool `json:"lockdown"`
	ShopsShut       bool `json:"shops_shut"`
	HospitalityShut bool `json:"hospitality_shut"`
	RuleOfSix       bool `json:"rule_of_six"`
	WorkFromHome    bool `json:"work_from_home"`
	PostCovid       bool `json:"postcovid"` // True for any date present in the restrictions file
}

// RestrictionTable maps calendar dates to their restriction flags.
type RestrictionTable struct {
	byDate map[time.Time]RestrictionFlags
}

// NewRestrictionTable builds a table from per-date flags. Dates are expected
// to already be truncated to midnight UTC.
func NewRestrictionTable(flags map[time.Time]RestrictionFlags) *RestrictionTable {
	if flags == nil {
		flags = make(map[time.Time]RestrictionFlags)
	}
	return &RestrictionTable{byDate: flags}
}

// Lookup returns the flags for a date. Missing dates yield zero-value flags,
// which encodes "restriction not in effect" and PostCovid=false.
func (t *RestrictionTable) Lookup(date time.Time) RestrictionFlags {
	if t == nil {
		return RestrictionFlags{}
	}
	return t.byDate[date]
}

// Len returns the number of dated rows in the table.
func (t *RestrictionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byDate)
}

// FeatureRow is one fully feature-engineered row of the prepared dataset.
// Holidays is aligned with the builder's HolidayColumns ordering so train and
// test subsets always share an identical column layout.
type FeatureRow struct {
	Date         time.Time `json:"date"`
	Hires        int       `json:"hires"`
	Docks        int       `json:"docks"`
	DocksKnown   bool      `json:"docks_known"`
	HiresPerDock float64   `json:"hires_per_dock"`
	Defined      bool      `json:"defined"`

	Year    int          `json:"year"`
	Month   time.Month   `json:"month"`
	ISOWeek int          `json:"iso_week"`
	Weekday time.Weekday `json:"weekday"`

	Holidays       []bool `json:"holidays"`
	ExchangeClosed bool   `json:"exchange_closed"`

	Restrictions RestrictionFlags `json:"restrictions"`

	DateIndex float64 `json:"date_index"` // Standardized days-since-epoch
}

// FeatureDataset is a named, chronologically ordered feature table produced
// by one FeatureBuilder transform pass.
type FeatureDataset struct {
	Name           string       `json:"name"` // e.g. "train", "test", "holdout"
	Rows           []FeatureRow `json:"rows"`
	HolidayColumns []string     `json:"holiday_columns"` // Ordering for FeatureRow.Holidays
}

// MonthColumns returns the stable one-hot column names for the month
// categorical, in calendar order. The full domain is emitted regardless of
// which months appear in a subset.
func MonthColumns() []string {
	cols := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		cols = append(cols, "month_"+monthKey(m))
	}
	return cols
}

// WeekdayColumns returns the stable one-hot column names for the weekday
// categorical, Monday first.
func WeekdayColumns() []string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	cols := make([]string, 0, len(order))
	for _, d := range order {
		cols = append(cols, "weekday_"+weekdayKey(d))
	}
	return cols
}

// MonthOneHot expands the row's month into indicators aligned with MonthColumns.
func (r FeatureRow) MonthOneHot() []float64 {
	out := make([]float64, 12)
	out[int(r.Month)-1] = 1
	return out
}

// WeekdayOneHot expands the row's weekday into indicators aligned with WeekdayColumns.
func (r FeatureRow) WeekdayOneHot() []float64 {
	out := make([]float64, 7)
	// time.Weekday starts at Sunday; our column order starts at Monday.
	idx := (int(r.Weekday) + 6) % 7
	out[idx] = 1
	return out
}
