// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStations prints station event extraction results using the configured output format.
func (ow *OutWriter) WriteStations(result schema.ExtractionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintStationResults(result, cfg, duration)
}

// WriteTimeline prints the dock timeline using the configured output format.
func (ow *OutWriter) WriteTimeline(series []schema.DailyDockCount, cfg *contract.Config, duration time.Duration) error {
	return PrintTimelineResults(series, cfg, duration)
}

// WriteUsage prints the joined usage series using the configured output format.
func (ow *OutWriter) WriteUsage(rows []schema.DailyHireRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintUsageResults(rows, cfg, duration)
}

// WriteFeatureSummary prints per-partition feature dataset summaries using the configured output format.
func (ow *OutWriter) WriteFeatureSummary(datasets []schema.FeatureDataset, cfg *contract.Config, duration time.Duration) error {
	return PrintFeatureSummaries(datasets, cfg, duration)
}

// GetMaxTableNameWidth calculates the maximum width for station names in table
// output based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (station id, event, date, docks)
	// plus table borders, separators, and padding.
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 50 {
		// Maximum name width to prevent overly wide tables
		return 50
	}
	return available
}
