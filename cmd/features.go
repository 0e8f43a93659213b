package cmd

import (
	"github.com/spf13/cobra"

	"github.com/velostat/velostat/core"
	"github.com/velostat/velostat/internal/contract"
)

// featuresCmd runs the full preparation pipeline.
var featuresCmd = &cobra.Command{
	Use:   "features [hires-csv]",
	Short: "Build leakage-safe train/test feature datasets.",
	Long: `Run the full preparation pipeline: join hires against the dock timeline,
split the series chronologically and engineer model-ready features.

The split never shuffles; training rows always precede test rows in time.
Calendar features (one-hot months, weekdays, holidays), exchange closures,
COVID restriction flags and a normalized date index are derived per row. The
date index is fit on the training partition only, so no statistic of the test
period leaks into training.

Each partition is written to --out-dir as Parquet (or CSV with --output csv),
and the run is recorded in the dataset store when --dataset-backend is set.

Examples:
  # Default 90/10 chronological split, Parquet output
  velostat features tfl-daily-hires.csv --output parquet --out-dir data/

  # Carve a final holdout off the series tail
  velostat features tfl-daily-hires.csv --train-frac 0.8 --holdout-frac 0.1 --output parquet

  # Include COVID restriction indicators
  velostat features tfl-daily-hires.csv --restrictions restrictions.csv --output parquet

  # Track runs for later comparison
  velostat features tfl-daily-hires.csv --output parquet --dataset-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFeatures(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build feature datasets", err)
		}
	},
}
