// Package main provides a performance benchmarking tool for the velostat CLI.
// It measures execution times across different series lengths and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - velostat binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic fixtures are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Series      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	SeriesDays  map[string]int
	Stations    int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		SeriesDays: map[string]int{
			"1y":  365,
			"5y":  1826,
			"10y": 3652,
		},
		Stations: 800,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fixtures, err := generateFixtures(config)
	if err != nil {
		fmt.Printf("Fixture generation failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using velostat cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("velostat", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config, fixtures)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// fixtureSet holds the generated input files for one series length.
type fixtureSet struct {
	Stations string
	Hires    string
	OutDir   string
}

// checkPrerequisites verifies that the velostat binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if velostat is available
	if _, err := exec.LookPath("velostat"); err != nil {
		return fmt.Errorf("velostat binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}

	return nil
}

// generateFixtures writes one stations snapshot plus a hires CSV per series length.
func generateFixtures(config BenchmarkConfig) (map[string]fixtureSet, error) {
	stationsPath := filepath.Join(config.WorkDir, "stations.json")
	if err := writeStationsFixture(stationsPath, config.Stations); err != nil {
		return nil, err
	}

	fixtures := make(map[string]fixtureSet, len(config.SeriesDays))
	for name, days := range config.SeriesDays {
		hiresPath := filepath.Join(config.WorkDir, fmt.Sprintf("hires_%s.csv", name))
		if err := writeHiresFixture(hiresPath, days); err != nil {
			return nil, err
		}
		outDir := filepath.Join(config.WorkDir, "out_"+name)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
		fixtures[name] = fixtureSet{Stations: stationsPath, Hires: hiresPath, OutDir: outDir}
	}
	return fixtures, nil
}

// writeStationsFixture emits a BikePoint-shaped snapshot with n stations whose
// install dates are spread across 2010.
func writeStationsFixture(path string, n int) error {
	var b strings.Builder
	b.WriteString("[\n")
	base := time.Date(2010, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		install := base.AddDate(0, 0, i%180).UnixMilli()
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, `	{"id": "BikePoints_%d", "commonName": "Station %d", "lat": 51.5, "lon": -0.1, "additionalProperties": [{"key": "NbDocks", "value": "%d"}, {"key": "InstallDate", "value": "%d"}]}`,
			i+1, i+1, 15+i%25, install)
	}
	b.WriteString("\n]\n")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeHiresFixture emits a daily hire-count CSV covering the given number of days.
func writeHiresFixture(path string, days int) error {
	var b strings.Builder
	b.WriteString("Day,Number of Bicycle Hires\n")
	start := time.Date(2010, 7, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%d\n", date.Format("2006-01-02"), 15000+(i%7)*2000)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// runBenchmarks executes all benchmark tests across configured series lengths
func runBenchmarks(config BenchmarkConfig, fixtures map[string]fixtureSet) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d series, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(fixtures), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for name, fix := range fixtures {
		fmt.Printf("Benchmarking %s series\n", name)

		base := fmt.Sprintf("--source file --stations-file %s --output-file /dev/null", fix.Stations)

		// Usage join
		args := fmt.Sprintf("%s %s --output csv", fix.Hires, base)
		results = append(results, runBenchmarkSuite(config, name, "usage", "usage join", args))

		// Full feature pipeline
		args = fmt.Sprintf("%s %s --output parquet --out-dir %s", fix.Hires, base, fix.OutDir)
		results = append(results, runBenchmarkSuite(config, name, "features", "feature pipeline", args))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, series, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s series\n", description, series)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Series:      series,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a velostat command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, extraArgs, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{command, "--cache-backend", cacheBackend}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("velostat", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/velostat_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"series", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Series, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "usage", "Usage Join:")
	printCommandSummary(results, "features", "Feature Pipeline:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-4s: No-cache: %s, Cold: %s, Warm: %s\n", result.Series, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
