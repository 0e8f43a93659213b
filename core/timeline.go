package core

import (
	"errors"
	"sort"
	"time"

	"github.com/velostat/velostat/schema"
)

// ErrNoEvents is returned when a timeline is requested from an empty event stream.
var ErrNoEvents = errors.New("no station events to build a timeline from")

// BuildDockTimeline merges install and removal events into a cumulative daily
// count of active stations and docks, covering every calendar date from the
// earliest event to the latest inclusive. Days without events inherit the
// prior day's totals. Within a single date the apply order of installs and
// removals is irrelevant: totals depend only on the per-date net sums.
func BuildDockTimeline(installs, removals []schema.StationEvent) ([]schema.DailyDockCount, error) {
	if len(installs) == 0 && len(removals) == 0 {
		return nil, ErrNoEvents
	}

	type netChange struct {
		stations int
		docks    int
	}
	changes := make(map[time.Time]netChange)

	first, last := time.Time{}, time.Time{}
	observe := func(d time.Time) {
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}

	for _, ev := range installs {
		c := changes[ev.Date]
		c.stations++
		c.docks += ev.Docks
		changes[ev.Date] = c
		observe(ev.Date)
	}
	for _, ev := range removals {
		c := changes[ev.Date]
		c.stations--
		c.docks -= ev.Docks
		changes[ev.Date] = c
		observe(ev.Date)
	}

	var timeline []schema.DailyDockCount
	stations, docks := 0, 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if c, ok := changes[d]; ok {
			stations += c.stations
			docks += c.docks
		}
		timeline = append(timeline, schema.DailyDockCount{
			Date:     d,
			Stations: stations,
			Docks:    docks,
		})
	}
	return timeline, nil
}

// DockCountOn returns the station and dock totals in effect on the given
// date. The timeline must be sorted ascending by date. Dates after the last
// row inherit its totals, the same carry-forward the usage join applies;
// dates before the first row have no known capacity and report false.
func DockCountOn(timeline []schema.DailyDockCount, date time.Time) (schema.DailyDockCount, bool) {
	if len(timeline) == 0 || date.Before(timeline[0].Date) {
		return schema.DailyDockCount{}, false
	}

	// Index of the first row strictly after the date; the row before it is
	// the one in effect.
	idx := sort.Search(len(timeline), func(i int) bool {
		return timeline[i].Date.After(date)
	})
	row := timeline[idx-1]
	return schema.DailyDockCount{
		Date:     date,
		Stations: row.Stations,
		Docks:    row.Docks,
	}, true
}

// ForwardFill completes a sparse dock-count sequence so that every calendar
// date between the first and last rows is present, holding the previous row's
// totals across gaps. The input must be sorted ascending by date. Running the
// fill over an already-complete sequence returns an identical sequence.
func ForwardFill(sparse []schema.DailyDockCount) []schema.DailyDockCount {
	if len(sparse) == 0 {
		return nil
	}

	filled := make([]schema.DailyDockCount, 0, len(sparse))
	prev := sparse[0]
	filled = append(filled, prev)
	for _, row := range sparse[1:] {
		for d := prev.Date.AddDate(0, 0, 1); d.Before(row.Date); d = d.AddDate(0, 0, 1) {
			filled = append(filled, schema.DailyDockCount{
				Date:     d,
				Stations: prev.Stations,
				Docks:    prev.Docks,
			})
		}
		filled = append(filled, row)
		prev = row
	}
	return filled
}
