package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Coverage label constants, classifying how much of a joined series has a
// defined hires-per-dock value.
const (
	FullValue    = "Full"    // Every row defined
	HighValue    = "High"    // At least 95% defined
	PartialValue = "Partial" // At least 70% defined
	SparseValue  = "Sparse"  // Below 70% defined
)

// Color variables for console output.
var (
	FullColor    = color.New(color.FgGreen)           // fullColor signals complete coverage.
	HighColor    = color.New(color.FgCyan)            // highColor signals near-complete coverage.
	PartialColor = color.New(color.FgYellow)          // partialColor signals gaps worth inspecting.
	SparseColor  = color.New(color.FgRed, color.Bold) // sparseColor signals unusable coverage.
)

// GetPlainLabel returns a plain text label for the defined-row share of a
// joined series. This is the core logic used for CSV, JSON and table output.
func GetPlainLabel(definedShare float64) string {
	switch {
	case definedShare >= 1:
		return FullValue
	case definedShare >= 0.95:
		return HighValue
	case definedShare >= 0.70:
		return PartialValue
	default:
		return SparseValue
	}
}

// GetColorLabel returns a colored coverage label for console table output.
func GetColorLabel(definedShare float64) string {
	text := GetPlainLabel(definedShare)

	switch text {
	case FullValue:
		return FullColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case PartialValue:
		return PartialColor.Sprint(text)
	default: // "Sparse"
		return SparseColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateName shortens a station name for table display, keeping the head
// of the string which carries the locality.
func TruncateName(name string, maxLen int) string {
	if maxLen <= 3 || len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}

// cacheDBFileName is the SQLite file for BikePoint payload caching.
const cacheDBFileName = ".velostat_cache.db"

// datasetDBFileName is the SQLite file for dataset run tracking.
const datasetDBFileName = ".velostat_datasets.db"

// GetCacheDBFilePath returns the default path of the cache SQLite file.
func GetCacheDBFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, cacheDBFileName)
}

// GetDatasetDBFilePath returns the default path of the dataset SQLite file.
func GetDatasetDBFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, datasetDBFileName)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s\n", msg)
}
