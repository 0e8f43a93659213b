package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/velostat/velostat/schema"
)

// Default values for configuration.
const (
	DefaultTrainFrac  = 0.9
	DefaultPrecision  = 2
	DefaultAPITimeout = 30 * time.Second
	DefaultOutDir     = "."
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the validated runtime configuration for a pipeline run.
// Fields that require parsing (durations, enums) are set by
// ProcessAndValidate after flags, env and config file are merged.
type Config struct {
	Source       schema.StationSource // Where station records come from
	StationsFile string               // JSON file of station records when Source is "file"

	HiresFile        string             // CSV of hire counts
	Granularity      schema.Granularity // Period covered by one hire row
	RestrictionsFile string             // CSV of COVID restriction indicators (optional)

	TrainFrac    float64 // Training proportion in (0,1)
	HoldoutFrac  float64 // Optional holdout proportion of the test remainder, 0 disables
	FillGapLimit int     // Max days of dock forward-fill past the timeline, 0 = unlimited

	Output     schema.OutputMode
	OutputFile string // Empty means stdout
	OutDir     string // Directory for dataset files
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	APIBaseURL string
	APITimeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	DatasetBackend   schema.DatabaseBackend
	DatasetDBConnect string
}

// Clone returns a copy of the configuration. MCP tool handlers clone the base
// config so per-request overrides never leak between requests.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from flags, env and config file that
// require parsing or validation. Viper unmarshals into this struct.
type ConfigRawInput struct {
	Source           string  `mapstructure:"source"`
	StationsFile     string  `mapstructure:"stations-file"`
	Hires            string  `mapstructure:"hires"`
	Granularity      string  `mapstructure:"granularity"`
	Restrictions     string  `mapstructure:"restrictions"`
	TrainFrac        float64 `mapstructure:"train-frac"`
	HoldoutFrac      float64 `mapstructure:"holdout-frac"`
	FillGapLimit     int     `mapstructure:"fill-gap-limit"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	OutDir           string  `mapstructure:"out-dir"`
	Precision        int     `mapstructure:"precision"`
	Width            int     `mapstructure:"width"`
	APIBaseURL       string  `mapstructure:"api-base-url"`
	APITimeout       string  `mapstructure:"api-timeout"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	DatasetBackend   string  `mapstructure:"dataset-backend"`
	DatasetDBConnect string  `mapstructure:"dataset-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Station source ---
	cfg.Source = schema.StationSource(strings.ToLower(input.Source))
	switch cfg.Source {
	case schema.APISource:
	case schema.FileSource:
		if input.StationsFile == "" {
			return fmt.Errorf("stations-file is required when source is %s", schema.FileSource)
		}
	default:
		return fmt.Errorf("invalid station source '%s'. must be api or file", input.Source)
	}
	cfg.StationsFile = input.StationsFile

	// --- 2. Input files and granularity ---
	cfg.HiresFile = input.Hires
	cfg.RestrictionsFile = input.Restrictions
	cfg.Granularity = schema.Granularity(strings.ToLower(input.Granularity))
	if !schema.ValidGranularities[cfg.Granularity] {
		return fmt.Errorf("invalid granularity '%s'. must be daily, monthly, yearly", input.Granularity)
	}

	// --- 3. Split proportions ---
	if !(input.TrainFrac > 0 && input.TrainFrac < 1) {
		return fmt.Errorf("train-frac must be in (0, 1) (received %g)", input.TrainFrac)
	}
	cfg.TrainFrac = input.TrainFrac
	if input.HoldoutFrac < 0 || input.HoldoutFrac >= 1 {
		return fmt.Errorf("holdout-frac must be in [0, 1) (received %g)", input.HoldoutFrac)
	}
	cfg.HoldoutFrac = input.HoldoutFrac

	// --- 4. Fill policy ---
	if input.FillGapLimit < 0 {
		return fmt.Errorf("fill-gap-limit cannot be negative (received %d)", input.FillGapLimit)
	}
	cfg.FillGapLimit = input.FillGapLimit

	// --- 5. Precision and output validation ---
	if input.Precision < 1 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 1 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.Width = input.Width

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if !schema.ValidOutputModes[cfg.Output] {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.OutDir = input.OutDir
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}

	// --- 6. API settings ---
	cfg.APIBaseURL = input.APIBaseURL
	cfg.APITimeout = DefaultAPITimeout
	if input.APITimeout != "" {
		d, err := time.ParseDuration(input.APITimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid api-timeout '%s'. must be a positive duration like 30s", input.APITimeout)
		}
		cfg.APITimeout = d
	}

	// --- 7. Backend validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if !schema.ValidDatabaseBackends[cfg.CacheBackend] {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.DatasetBackend = schema.DatabaseBackend(strings.ToLower(input.DatasetBackend))
	if cfg.DatasetBackend != "" {
		if !schema.ValidDatabaseBackends[cfg.DatasetBackend] {
			return fmt.Errorf("invalid dataset backend '%s'. must be sqlite, mysql, postgresql, none", input.DatasetBackend)
		}
		cfg.DatasetDBConnect = input.DatasetDBConnect
		if err := ValidateDatabaseConnectionString(cfg.DatasetBackend, cfg.DatasetDBConnect); err != nil {
			return err
		}

		// Cache and dataset storage must not share a SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.DatasetBackend == schema.SQLiteBackend {
			cachePath := cfg.CacheDBConnect
			if cachePath == "" {
				cachePath = GetCacheDBFilePath()
			}
			datasetPath := cfg.DatasetDBConnect
			if datasetPath == "" {
				datasetPath = GetDatasetDBFilePath()
			}
			if cachePath == datasetPath {
				return fmt.Errorf("cache and dataset storage must use different SQLite database files. Both resolve to %q", cachePath)
			}
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend, "":
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or use the postgres:// URL form")
		}
	}
	return nil
}
