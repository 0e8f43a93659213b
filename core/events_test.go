package core

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

// epochMillis renders a date as the millisecond epoch string used by the
// BikePoint additionalProperties payload.
func epochMillis(t time.Time) string {
	return strconv.FormatInt(t.Unix()*1000, 10)
}

func TestExtractStationEvents(t *testing.T) {
	install := time.Date(2010, 7, 30, 10, 15, 0, 0, time.UTC)
	removal := time.Date(2015, 1, 1, 8, 0, 0, 0, time.UTC)

	records := []schema.StationRecord{
		{ID: "BikePoints_1", NbDocks: "19", InstallDate: epochMillis(install), RemovalDate: epochMillis(removal)},
		{ID: "BikePoints_2", NbDocks: "24", InstallDate: epochMillis(install.AddDate(1, 0, 0))},
		{ID: "BikePoints_3", NbDocks: "12"},                                          // never installed
		{ID: "BikePoints_4", NbDocks: "lots", InstallDate: epochMillis(install)},     // bad dock count
		{ID: "BikePoints_5", NbDocks: "30", InstallDate: "not-a-timestamp"},          // bad install
		{ID: "BikePoints_6", NbDocks: "16", InstallDate: epochMillis(install), RemovalDate: "bogus"}, // bad removal
	}

	result := ExtractStationEvents(records)

	assert.Equal(t, 6, result.TotalRecords)
	assert.Equal(t, 1, result.MissingInstall)
	assert.Equal(t, 3, result.Malformed)

	require.Len(t, result.Installs, 2)
	require.Len(t, result.Removals, 1)

	// Time of day is truncated, not rounded.
	assert.Equal(t, time.Date(2010, 7, 30, 0, 0, 0, 0, time.UTC), result.Installs[0].Date)
	assert.Equal(t, schema.Installed, result.Installs[0].Type)
	assert.Equal(t, 19, result.Installs[0].Docks)

	assert.Equal(t, "BikePoints_1", result.Removals[0].StationID)
	assert.Equal(t, schema.Removed, result.Removals[0].Type)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), result.Removals[0].Date)
}

func TestExtractStationEventsSortsByDate(t *testing.T) {
	later := time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []schema.StationRecord{
		{ID: "b", NbDocks: "10", InstallDate: epochMillis(later)},
		{ID: "a", NbDocks: "5", InstallDate: epochMillis(earlier)},
	}

	result := ExtractStationEvents(records)
	require.Len(t, result.Installs, 2)
	assert.Equal(t, "a", result.Installs[0].StationID)
	assert.Equal(t, "b", result.Installs[1].StationID)
	assert.True(t, result.Installs[0].Date.Before(result.Installs[1].Date))
}

func TestExtractStationEventsEmptyInput(t *testing.T) {
	result := ExtractStationEvents(nil)
	assert.Zero(t, result.TotalRecords)
	assert.Empty(t, result.Installs)
	assert.Empty(t, result.Removals)
}

func TestExtractStationEventsNegativeDocks(t *testing.T) {
	records := []schema.StationRecord{
		{ID: "x", NbDocks: "-3", InstallDate: epochMillis(time.Now())},
	}
	result := ExtractStationEvents(records)
	assert.Equal(t, 1, result.Malformed)
	assert.Empty(t, result.Installs)
}
