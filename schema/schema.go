// Package schema has configs, models and shared types for all parts of velostat.
package schema

import "time"

// StationRecord is one docking station as returned by the TfL BikePoint API,
// with the relevant additionalProperties entries flattened into fields.
// NbDocks, InstallDate and RemovalDate are kept as raw strings here; parsing
// them (and rejecting malformed values) is the extractor's job.
type StationRecord struct {
	ID          string  // Opaque station identifier, e.g. "BikePoints_42"
	Name        string  // Human-readable station name
	Lat         float64 // Latitude of the station
	Lon         float64 // Longitude of the station
	NbDocks     string  // Raw dock count, decimal string
	InstallDate string  // Raw install timestamp, millisecond epoch string (may be empty)
	RemovalDate string  // Raw removal timestamp, millisecond epoch string (may be empty)
}

// StationEvent is one dock-count-affecting event at a station. A station
// contributes at most one Installed and at most one Removed event; absence of
// a Removed event means the station is still active as of data collection.
type StationEvent struct {
	StationID string    // Identifier of the affected station
	Type      EventType // Installed or Removed
	Date      time.Time // Calendar date of the event, truncated to midnight UTC
	Docks     int       // Number of docks added or removed by this event
}

// DailyDockCount is one row of the cumulative dock timeline. The sequence has
// one row per calendar date from the earliest event to the latest, with days
// between events inheriting the prior day's totals.
type DailyDockCount struct {
	Date     time.Time `json:"date"`     // Calendar date, strictly increasing across the sequence
	Stations int       `json:"stations"` // Active stations as of this date
	Docks    int       `json:"docks"`    // Active docks as of this date
}

// HireCount is one row of a raw hire-count series at any granularity,
// after the source columns have been renamed to the canonical (date, n) pair.
type HireCount struct {
	Date time.Time // Start of the period this count covers
	N    int       // Number of hires in the period
}

// DailyHireRecord is one joined row of daily hires against the dock timeline.
// Defined is false when the dock count for the date is unknown or zero, in
// which case HiresPerDock is NaN and must not be treated as a real value.
type DailyHireRecord struct {
	Date         time.Time `json:"date"`
	Hires        int       `json:"hires"`
	Docks        int       `json:"docks"`
	DocksKnown   bool      `json:"docks_known"` // False for dates before the first dock record
	HiresPerDock float64   `json:"hires_per_dock"`
	Defined      bool      `json:"defined"` // False when HiresPerDock is undefined (NaN)
}

// ExtractionResult carries the outcome of station event extraction, including
// counters for records that were skipped so callers can report data quality.
type ExtractionResult struct {
	Installs       []StationEvent // Install events, sorted ascending by date
	Removals       []StationEvent // Removal events, sorted ascending by date
	TotalRecords   int            // Raw records seen
	MissingInstall int            // Records dropped for missing install date
	Malformed      int            // Records dropped for unparseable docks or timestamps
}
