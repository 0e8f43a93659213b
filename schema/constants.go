package schema

// Custom string types for type safety.
type (
	// EventType distinguishes install and removal station events.
	EventType string

	// Granularity represents the period covered by one hire-count row.
	Granularity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string

	// CalendarName identifies a holiday calendar.
	CalendarName string

	// StationSource selects where station records come from.
	StationSource string
)

// All station event types.
const (
	Installed EventType = "installed"
	Removed   EventType = "removed"
)

// All hire-count granularities supported by the ingest layer.
const (
	DailyGranularity   Granularity = "daily" // default
	MonthlyGranularity Granularity = "monthly"
	YearlyGranularity  Granularity = "yearly"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache/dataset backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All built-in holiday calendars.
const (
	WorldCalendar CalendarName = "world"
	GBCalendar    CalendarName = "gb"
)

// All station sources supported.
const (
	APISource  StationSource = "api" // default
	FileSource StationSource = "file"
)

// ValidDatabaseBackends is the allow-list used during config validation.
var ValidDatabaseBackends = map[DatabaseBackend]bool{
	SQLiteBackend:     true,
	MySQLBackend:      true,
	PostgreSQLBackend: true,
	NoneBackend:       true,
}

// ValidOutputModes is the allow-list used during config validation.
var ValidOutputModes = map[OutputMode]bool{
	TextOut:    true,
	CSVOut:     true,
	JSONOut:    true,
	ParquetOut: true,
}

// ValidGranularities is the allow-list used during config validation.
var ValidGranularities = map[Granularity]bool{
	DailyGranularity:   true,
	MonthlyGranularity: true,
	YearlyGranularity:  true,
}
