package core

import (
	"math"
	"time"

	"github.com/velostat/velostat/schema"
)

// FillPolicy controls how dock counts are carried beyond the end of the
// timeline when joining hire counts. GapLimitDays bounds how many days past
// the last timeline entry the final value may be held; zero means unlimited,
// which matches the behavior of the original data source.
type FillPolicy struct {
	GapLimitDays int
}

// NormalizeUsage left-joins a daily hire series against the dock timeline on
// date and derives hires per dock. Dates before the first timeline entry have
// an unknown dock count; their ratio is undefined (NaN, Defined=false), never
// a silent zero. Dates after the last timeline entry reuse the last known
// dock count subject to the fill policy. A zero dock count also yields an
// undefined ratio.
func NormalizeUsage(hires []schema.HireCount, timeline []schema.DailyDockCount, policy FillPolicy) []schema.DailyHireRecord {
	byDate := make(map[time.Time]int, len(timeline))
	var firstDate, lastDate time.Time
	lastDocks := 0
	if len(timeline) > 0 {
		firstDate = timeline[0].Date
		lastDate = timeline[len(timeline)-1].Date
		lastDocks = timeline[len(timeline)-1].Docks
	}
	for _, row := range timeline {
		byDate[row.Date] = row.Docks
	}

	joined := make([]schema.DailyHireRecord, 0, len(hires))
	for _, h := range hires {
		rec := schema.DailyHireRecord{Date: h.Date, Hires: h.N}

		switch {
		case len(timeline) == 0 || h.Date.Before(firstDate):
			// No dock record yet; the denominator is unknown.
		case h.Date.After(lastDate):
			if policy.GapLimitDays > 0 {
				gap := int(h.Date.Sub(lastDate).Hours() / 24)
				if gap > policy.GapLimitDays {
					break
				}
			}
			rec.Docks = lastDocks
			rec.DocksKnown = true
		default:
			// Timeline is gap-free between its first and last dates.
			rec.Docks = byDate[h.Date]
			rec.DocksKnown = true
		}

		if rec.DocksKnown && rec.Docks > 0 {
			rec.HiresPerDock = float64(rec.Hires) / float64(rec.Docks)
			rec.Defined = true
		} else {
			rec.HiresPerDock = math.NaN()
		}
		joined = append(joined, rec)
	}
	return joined
}
