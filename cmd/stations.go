package cmd

import (
	"github.com/spf13/cobra"

	"github.com/velostat/velostat/core"
	"github.com/velostat/velostat/internal/contract"
)

// stationsCmd extracts dock install and removal events.
var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Extract dock install and removal events from station metadata.",
	Long: `Fetch TfL BikePoint station metadata and extract the dock lifecycle events.

Each station contributes an install event (when its docks came online) and,
if it has been decommissioned, a removal event. Records with no install date
or with malformed dock counts are skipped and counted, never silently dropped.

The fetched payload is cached for a day, so repeated runs against the live
API do not hammer the endpoint.

Examples:
  # Fetch from the live API and print a table
  velostat stations

  # Work from a saved snapshot instead of the network
  velostat stations --source file --stations-file bikepoints.json

  # Export the events for inspection
  velostat stations --output csv --output-file events.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStations(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot extract station events", err)
		}
	},
}
