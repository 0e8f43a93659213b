package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

func TestReadHiresDaily(t *testing.T) {
	in := strings.NewReader(
		"Day,Number of Bicycle Hires\n" +
			"01/03/2020,26049\n" +
			"02/03/2020,31144.0\n" +
			"2020-03-03,29675\n")

	counts, err := readHires(in, schema.DailyGranularity)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), counts[0].Date)
	assert.Equal(t, 26049, counts[0].N)
	assert.Equal(t, 31144, counts[1].N)
	assert.Equal(t, 29675, counts[2].N)
}

func TestReadHiresSortsByDate(t *testing.T) {
	in := strings.NewReader(
		"date,n\n" +
			"2020-03-03,3\n" +
			"2020-03-01,1\n" +
			"2020-03-02,2\n")

	counts, err := readHires(in, schema.DailyGranularity)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	for i, want := range []int{1, 2, 3} {
		assert.Equal(t, want, counts[i].N)
	}
}

func TestReadHiresMonthly(t *testing.T) {
	in := strings.NewReader(
		"Month,Number of Bicycle Hires\n" +
			"Jul 2010,12461\n" +
			"Aug 2010,341203\n")

	counts, err := readHires(in, schema.MonthlyGranularity)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, time.Date(2010, 7, 1, 0, 0, 0, 0, time.UTC), counts[0].Date)
}

func TestReadHiresYearly(t *testing.T) {
	in := strings.NewReader(
		"Year,Number of Bicycle Hires\n" +
			"2015,9871839\n" +
			"2016,\"10,303,637\"\n")

	counts, err := readHires(in, schema.YearlyGranularity)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), counts[0].Date)
	assert.Equal(t, 10303637, counts[1].N)
}

func TestReadHiresErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no usable header", "foo,bar\n1,2\n"},
		{"bad date", "date,n\nsomeday,10\n"},
		{"bad count", "date,n\n2020-03-01,lots\n"},
		{"fractional count", "date,n\n2020-03-01,10.5\n"},
		{"negative count", "date,n\n2020-03-01,-3\n"},
		{"duplicate date", "date,n\n2020-03-01,1\n2020-03-01,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readHires(strings.NewReader(tt.in), schema.DailyGranularity)
			assert.Error(t, err)
		})
	}
}

func TestLoadHiresMissingFile(t *testing.T) {
	_, err := LoadHires("/nonexistent/hires.csv", schema.DailyGranularity)
	assert.Error(t, err)
}
