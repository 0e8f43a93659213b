package cmd

import (
	"github.com/spf13/cobra"

	"github.com/velostat/velostat/core"
	"github.com/velostat/velostat/internal/contract"
)

// timelineCmd builds the cumulative dock timeline.
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build the daily timeline of active stations and docks.",
	Long: `Accumulate station install and removal events into a gap-free daily series.

The timeline has one row per calendar date from the earliest event to the
latest, with days between events inheriting the prior day's totals. This is
the denominator series for hires-per-dock normalization.

Examples:
  # Print the timeline as a table
  velostat timeline

  # Export for plotting
  velostat timeline --output csv --output-file timeline.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTimeline(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build dock timeline", err)
		}
	},
}
