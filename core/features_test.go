package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/velostat/velostat/schema"
)

// makeJoined builds n consecutive defined daily rows starting at start.
func makeJoined(start time.Time, n int) []schema.DailyHireRecord {
	rows := make([]schema.DailyHireRecord, 0, n)
	for i := range n {
		rows = append(rows, schema.DailyHireRecord{
			Date:         start.AddDate(0, 0, i),
			Hires:        1000 + 10*i,
			Docks:        200,
			DocksKnown:   true,
			HiresPerDock: float64(1000+10*i) / 200,
			Defined:      true,
		})
	}
	return rows
}

func defaultBuilder(restrictions *schema.RestrictionTable) *FeatureBuilder {
	return NewFeatureBuilder([]Calendar{WorldHolidays(), GBHolidays()}, restrictions)
}

func TestFeatureBuilderTransformBeforeFit(t *testing.T) {
	b := defaultBuilder(nil)
	_, err := b.Transform("test", makeJoined(day(2020, 1, 1), 5))
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestFeatureBuilderRefitAfterTransform(t *testing.T) {
	b := defaultBuilder(nil)
	rows := makeJoined(day(2020, 1, 1), 10)

	require.NoError(t, b.Fit(rows))
	_, err := b.Transform("train", rows)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Fit(rows), ErrRefitAfterTransform)
}

func TestFeatureBuilderRejectsUnsorted(t *testing.T) {
	b := defaultBuilder(nil)
	rows := makeJoined(day(2020, 1, 1), 5)
	rows[1], rows[3] = rows[3], rows[1]

	assert.ErrorIs(t, b.Fit(rows), ErrUnsorted)

	require.NoError(t, b.Fit(makeJoined(day(2020, 1, 1), 5)))
	_, err := b.Transform("test", rows)
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestFeatureBuilderNormalization(t *testing.T) {
	b := defaultBuilder(nil)
	train := makeJoined(day(2019, 1, 1), 365)
	test := makeJoined(day(2020, 1, 1), 60)

	require.NoError(t, b.Fit(train))

	trainSet, err := b.Transform("train", train)
	require.NoError(t, err)
	testSet, err := b.Transform("test", test)
	require.NoError(t, err)

	trainIdx := make([]float64, len(trainSet.Rows))
	for i, r := range trainSet.Rows {
		trainIdx[i] = r.DateIndex
	}
	mean, std := stat.MeanStdDev(trainIdx, nil)
	assert.InDelta(t, 0.0, mean, 1e-9)
	assert.InDelta(t, 1.0, std, 1e-9)

	// Test rows lie after the training window, so the same transform pushes
	// them all above the training mean. No re-centering on test data.
	for _, r := range testSet.Rows {
		assert.Greater(t, r.DateIndex, 1.0)
	}
}

func TestFeatureBuilderCalendarFields(t *testing.T) {
	b := defaultBuilder(nil)
	rows := makeJoined(day(2020, 12, 21), 10) // spans Christmas into new year
	require.NoError(t, b.Fit(rows))

	ds, err := b.Transform("train", rows)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 10)

	first := ds.Rows[0] // Monday 2020-12-21
	assert.Equal(t, 2020, first.Year)
	assert.Equal(t, time.December, first.Month)
	assert.Equal(t, time.Monday, first.Weekday)
	assert.Equal(t, 52, first.ISOWeek)

	byDate := make(map[time.Time]schema.FeatureRow)
	for _, r := range ds.Rows {
		byDate[r.Date] = r
	}

	colIdx := make(map[string]int)
	for i, col := range ds.HolidayColumns {
		colIdx[col] = i
	}

	xmas := byDate[day(2020, 12, 25)]
	assert.True(t, xmas.Holidays[colIdx["hol_world_christmas"]])
	assert.True(t, xmas.Holidays[colIdx["hol_gb_christmas"]])
	assert.True(t, xmas.ExchangeClosed)

	boxing := byDate[day(2020, 12, 28)] // observed Boxing Day in 2020
	assert.True(t, boxing.Holidays[colIdx["hol_gb_boxing_day"]])
	assert.False(t, boxing.Holidays[colIdx["hol_world_christmas"]])

	ordinary := byDate[day(2020, 12, 22)]
	for _, flag := range ordinary.Holidays {
		assert.False(t, flag)
	}
	assert.False(t, ordinary.ExchangeClosed)
}

func TestFeatureBuilderStableColumns(t *testing.T) {
	b := defaultBuilder(nil)
	train := makeJoined(day(2020, 1, 1), 40) // January and February only
	test := makeJoined(day(2020, 7, 1), 10)  // July only

	require.NoError(t, b.Fit(train))
	trainSet, err := b.Transform("train", train)
	require.NoError(t, err)
	testSet, err := b.Transform("test", test)
	require.NoError(t, err)

	// Identical column layouts even though the subsets cover different
	// months: categories absent from a subset still have columns.
	assert.Equal(t, trainSet.HolidayColumns, testSet.HolidayColumns)
	assert.Len(t, trainSet.Rows[0].MonthOneHot(), 12)
	assert.Len(t, testSet.Rows[0].MonthOneHot(), 12)

	// July rows produce an all-zero January indicator, not a missing one.
	julyMonths := testSet.Rows[0].MonthOneHot()
	assert.Zero(t, julyMonths[0])
	assert.Equal(t, 1.0, julyMonths[6])
}

func TestFeatureBuilderRestrictions(t *testing.T) {
	lockdownDay := day(2020, 3, 23)
	table := schema.NewRestrictionTable(map[time.Time]schema.RestrictionFlags{
		lockdownDay: {Lockdown: true, ShopsShut: true, PostCovid: true},
	})

	b := defaultBuilder(table)
	rows := makeJoined(day(2020, 3, 20), 7)
	require.NoError(t, b.Fit(rows))

	ds, err := b.Transform("train", rows)
	require.NoError(t, err)

	for _, r := range ds.Rows {
		if r.Date.Equal(lockdownDay) {
			assert.True(t, r.Restrictions.Lockdown)
			assert.True(t, r.Restrictions.PostCovid)
		} else {
			// Dates absent from the restrictions file read as not in effect.
			assert.False(t, r.Restrictions.Lockdown)
			assert.False(t, r.Restrictions.PostCovid)
		}
	}
}

func TestFeatureBuilderPreservesUndefined(t *testing.T) {
	rows := makeJoined(day(2020, 1, 1), 3)
	rows[1].Defined = false
	rows[1].DocksKnown = false

	b := defaultBuilder(nil)
	require.NoError(t, b.Fit(rows))
	ds, err := b.Transform("train", rows)
	require.NoError(t, err)

	assert.True(t, ds.Rows[0].Defined)
	assert.False(t, ds.Rows[1].Defined)
}
