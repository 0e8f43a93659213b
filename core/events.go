// Package core has the data preparation pipeline: station event extraction,
// dock timeline construction, usage normalization, feature engineering and
// chronological splitting.
package core

import (
	"sort"
	"strconv"
	"time"

	"github.com/velostat/velostat/schema"
)

// ExtractStationEvents parses raw station records into install and removal
// event sequences, each sorted ascending by date. Records without an install
// date never contributed docks and are dropped; records whose dock count or
// timestamps fail to parse are skipped. Both cases are counted in the result
// so one malformed record never blocks the rest.
func ExtractStationEvents(records []schema.StationRecord) schema.ExtractionResult {
	result := schema.ExtractionResult{TotalRecords: len(records)}

	for _, rec := range records {
		if rec.InstallDate == "" {
			result.MissingInstall++
			continue
		}

		docks, err := strconv.Atoi(rec.NbDocks)
		if err != nil || docks < 0 {
			result.Malformed++
			continue
		}

		installDate, err := parseEpochMillis(rec.InstallDate)
		if err != nil {
			result.Malformed++
			continue
		}

		// The removal date is optional; a present but unparseable value is a
		// malformed record, the same as a bad dock count.
		var removalDate time.Time
		hasRemoval := rec.RemovalDate != ""
		if hasRemoval {
			removalDate, err = parseEpochMillis(rec.RemovalDate)
			if err != nil {
				result.Malformed++
				continue
			}
		}

		result.Installs = append(result.Installs, schema.StationEvent{
			StationID: rec.ID,
			Type:      schema.Installed,
			Date:      installDate,
			Docks:     docks,
		})
		if hasRemoval {
			result.Removals = append(result.Removals, schema.StationEvent{
				StationID: rec.ID,
				Type:      schema.Removed,
				Date:      removalDate,
				Docks:     docks,
			})
		}
	}

	sortEventsByDate(result.Installs)
	sortEventsByDate(result.Removals)
	return result
}

// parseEpochMillis converts a millisecond epoch string into a calendar date,
// truncated (not rounded) to midnight UTC.
func parseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return schema.TruncateDay(time.Unix(ms/1000, 0).UTC()), nil
}

func sortEventsByDate(events []schema.StationEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}
