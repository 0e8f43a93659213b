package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostat/velostat/schema"
)

// validInput returns a raw input that passes validation, for tests to
// perturb one field at a time.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Source:       "api",
		Granularity:  "daily",
		TrainFrac:    0.9,
		Precision:    2,
		Output:       "text",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.APISource, cfg.Source)
	assert.Equal(t, schema.DailyGranularity, cfg.Granularity)
	assert.Equal(t, 0.9, cfg.TrainFrac)
	assert.Equal(t, DefaultAPITimeout, cfg.APITimeout)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"bad source", func(in *ConfigRawInput) { in.Source = "carrier-pigeon" }},
		{"file source without file", func(in *ConfigRawInput) { in.Source = "file" }},
		{"bad granularity", func(in *ConfigRawInput) { in.Granularity = "hourly" }},
		{"train frac zero", func(in *ConfigRawInput) { in.TrainFrac = 0 }},
		{"train frac one", func(in *ConfigRawInput) { in.TrainFrac = 1 }},
		{"holdout frac negative", func(in *ConfigRawInput) { in.HoldoutFrac = -0.1 }},
		{"negative gap limit", func(in *ConfigRawInput) { in.FillGapLimit = -1 }},
		{"bad precision", func(in *ConfigRawInput) { in.Precision = 9 }},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"bad timeout", func(in *ConfigRawInput) { in.APITimeout = "soon" }},
		{"bad cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }},
		{"mysql without conn", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }},
		{"bad dataset backend", func(in *ConfigRawInput) { in.DatasetBackend = "oracle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidateAPITimeout(t *testing.T) {
	input := validInput()
	input.APITimeout = "5s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
}

func TestProcessAndValidateSQLitePathConflict(t *testing.T) {
	input := validInput()
	input.CacheBackend = "sqlite"
	input.CacheDBConnect = "/tmp/velostat.db"
	input.DatasetBackend = "sqlite"
	input.DatasetDBConnect = "/tmp/velostat.db"

	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pw@tcp(localhost:3306)/velostat"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost port=5432 dbname=velostat"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://user@localhost/velostat"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "localhost:5432"))
}

func TestCoverageLabels(t *testing.T) {
	assert.Equal(t, FullValue, GetPlainLabel(1.0))
	assert.Equal(t, HighValue, GetPlainLabel(0.97))
	assert.Equal(t, PartialValue, GetPlainLabel(0.8))
	assert.Equal(t, SparseValue, GetPlainLabel(0.2))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Hyde Park", TruncateName("Hyde Park", 20))
	assert.Equal(t, "Hyde Park Corner,...", TruncateName("Hyde Park Corner, Knightsbridge", 20))
	assert.Equal(t, "abc", TruncateName("abc", 3))
}
