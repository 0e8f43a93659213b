package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2019, day(2019, 4, 21)},
		{2020, day(2020, 4, 12)},
		{2021, day(2021, 4, 4)},
		{2022, day(2022, 4, 17)},
		{2024, day(2024, 3, 31)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, easterSunday(tt.year), "easter %d", tt.year)
	}
}

func TestGBHolidayResolution(t *testing.T) {
	gb := GBHolidays()

	tests := []struct {
		name string
		year int
		want time.Time
	}{
		{"good_friday", 2020, day(2020, 4, 10)},
		{"easter_monday", 2020, day(2020, 4, 13)},
		{"early_may", 2021, day(2021, 5, 3)},
		{"spring_bank", 2021, day(2021, 5, 31)},
		{"summer_bank", 2021, day(2021, 8, 30)},
		{"christmas", 2020, day(2020, 12, 25)},
		{"boxing_day", 2020, day(2020, 12, 28)}, // 26th was a Saturday
		{"christmas", 2021, day(2021, 12, 27)},  // 25th was a Saturday
		{"boxing_day", 2021, day(2021, 12, 28)}, // 26th was a Sunday
		{"new_year", 2022, day(2022, 1, 3)},     // Jan 1 was a Saturday
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := gb.Resolve(tt.name, tt.year)
			require.True(t, ok)
			assert.Equal(t, tt.want, got, "%s %d", tt.name, tt.year)
		})
	}
}

func TestWorldHolidayResolution(t *testing.T) {
	world := WorldHolidays()

	got, ok := world.Resolve("new_year", 2022)
	require.True(t, ok)
	// World calendar holidays are fixed dates, no weekend shifting.
	assert.Equal(t, day(2022, 1, 1), got)

	got, ok = world.Resolve("christmas", 2021)
	require.True(t, ok)
	assert.Equal(t, day(2021, 12, 25), got)
}

func TestResolveUnknownHoliday(t *testing.T) {
	_, ok := GBHolidays().Resolve("thanksgiving", 2021)
	assert.False(t, ok)
}

func TestCalendarColumns(t *testing.T) {
	cols := GBHolidays().Columns()
	require.Len(t, cols, 8)
	assert.Equal(t, schema.HolidayColumn(schema.GBCalendar, "new_year"), cols[0])
	assert.Equal(t, schema.HolidayColumn(schema.GBCalendar, "boxing_day"), cols[7])
}

func TestIsExchangeClosed(t *testing.T) {
	assert.True(t, IsExchangeClosed(day(2021, 12, 27)))  // substitute Christmas holiday
	assert.True(t, IsExchangeClosed(day(2021, 6, 5)))    // Saturday
	assert.True(t, IsExchangeClosed(day(2020, 4, 10)))   // Good Friday
	assert.False(t, IsExchangeClosed(day(2021, 6, 8)))  // ordinary Tuesday
	assert.False(t, IsExchangeClosed(day(2021, 12, 24))) // Christmas Eve is a trading day
}
