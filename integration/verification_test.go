//go:build basic

// Package integration contains integration tests for velostat.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"bytes"
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUsageVerification runs velostat usage against local fixtures and
// verifies every emitted ratio independently.
func TestUsageVerification(t *testing.T) {
	stationsFile, hiresFile := writeFixtures(t)
	outFile := filepath.Join(t.TempDir(), "usage.csv")

	velostatPath := getVelostatBinary()
	cmd := exec.Command(velostatPath, "usage", hiresFile,
		"--source", "file", "--stations-file", stationsFile,
		"--cache-backend", "none",
		"--output", "csv", "--output-file", outFile,
		"--precision", "6")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	rows := readCSV(t, outFile)
	require.Len(t, rows, 31, "header plus one row per fixture day")
	require.Equal(t, []string{"date", "hires", "docks", "docks_known", "hires_per_dock", "defined"}, rows[0])

	for _, row := range rows[1:] {
		hires, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		docks, err := strconv.Atoi(row[2])
		require.NoError(t, err)
		require.Equal(t, "true", row[5], "fixture docks are known for every date")

		ratio, err := strconv.ParseFloat(row[4], 64)
		require.NoError(t, err)
		assert.InDelta(t, float64(hires)/float64(docks), ratio, 1e-6,
			"ratio mismatch on %s", row[0])
	}
}

// TestFeaturesVerification checks that the chronological split tiles the
// input series with no overlap and no loss.
func TestFeaturesVerification(t *testing.T) {
	stationsFile, hiresFile := writeFixtures(t)
	outDir := t.TempDir()

	velostatPath := getVelostatBinary()
	cmd := exec.Command(velostatPath, "features", hiresFile,
		"--source", "file", "--stations-file", stationsFile,
		"--cache-backend", "none",
		"--train-frac", "0.8",
		"--output", "csv", "--out-dir", outDir,
		"--output-file", filepath.Join(outDir, "summary.csv"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	train := readCSV(t, filepath.Join(outDir, "train.csv"))
	test := readCSV(t, filepath.Join(outDir, "test.csv"))

	// 30 fixture days at train-frac 0.8: 24 train rows, 6 test rows.
	assert.Len(t, train[1:], 24)
	assert.Len(t, test[1:], 6)

	lastTrainDate := train[len(train)-1][0]
	firstTestDate := test[1][0]
	assert.Less(t, lastTrainDate, firstTestDate,
		"training rows must strictly precede test rows in time")

	// No date appears in both partitions.
	seen := make(map[string]bool)
	for _, row := range train[1:] {
		seen[row[0]] = true
	}
	for _, row := range test[1:] {
		assert.False(t, seen[row[0]], "date %s leaked into both partitions", row[0])
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}
