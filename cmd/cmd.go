// Package cmd defines the command-line interface for velostat.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/velostat/velostat/internal/bikepoint"
	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(datasetCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the dataset subcommands to the parent dataset command
	datasetCmd.AddCommand(datasetClearCmd)
	datasetCmd.AddCommand(datasetStatusCmd)
	datasetCmd.AddCommand(datasetExportCmd)
	datasetCmd.AddCommand(datasetMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source", string(schema.APISource), "Station source: api or file")
	rootCmd.PersistentFlags().String("stations-file", "", "BikePoint JSON snapshot (required when --source file)")
	rootCmd.PersistentFlags().String("hires", "", "Path to the hire-count CSV")
	rootCmd.PersistentFlags().String("granularity", string(schema.DailyGranularity), "Hire-count granularity: daily, monthly, yearly")
	rootCmd.PersistentFlags().String("restrictions", "", "Path to the COVID restrictions CSV")
	rootCmd.PersistentFlags().Float64("train-frac", contract.DefaultTrainFrac, "Training proportion in (0,1)")
	rootCmd.PersistentFlags().Float64("holdout-frac", 0, "Holdout proportion carved off the series tail (0 disables)")
	rootCmd.PersistentFlags().Int("fill-gap-limit", 0, "Max days of dock forward-fill past the timeline end (0 = unlimited)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("out-dir", contract.DefaultOutDir, "Directory for emitted dataset files")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("api-base-url", bikepoint.DefaultBaseURL, "TfL BikePoint endpoint")
	rootCmd.PersistentFlags().String("api-timeout", "30s", "HTTP timeout for the BikePoint fetch")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("dataset-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("dataset-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of datasetMigrateCmd to Viper
	datasetMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(datasetMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dataset migrate flags", err)
	}
}
