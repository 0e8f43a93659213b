package cmd

import (
	"github.com/spf13/cobra"

	"github.com/velostat/velostat/core"
	"github.com/velostat/velostat/internal/contract"
)

// usageCmd joins hires against the dock timeline.
var usageCmd = &cobra.Command{
	Use:   "usage [hires-csv]",
	Short: "Join daily hire counts against the dock timeline.",
	Long: `Left-join the daily hire-count series against the dock timeline and derive
hires per dock.

Dates before the first dock record have an unknown denominator; their ratio
is reported as undefined rather than a silent zero. Dates past the end of the
timeline reuse the last known dock count, bounded by --fill-gap-limit.

Examples:
  # Join a daily hires export
  velostat usage tfl-daily-hires.csv

  # Cap forward-fill at 90 days past the last dock record
  velostat usage tfl-daily-hires.csv --fill-gap-limit 90

  # Export the joined series
  velostat usage tfl-daily-hires.csv --output csv --output-file usage.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUsage(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot join usage series", err)
		}
	},
}
