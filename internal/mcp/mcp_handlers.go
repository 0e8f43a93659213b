package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velostat/velostat/core"
	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/internal/outwriter"
	"github.com/velostat/velostat/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyStationOverrides copies the per-request station source settings onto a
// cloned config.
func applyStationOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	if s := request.GetString("source", ""); s != "" {
		cfg.Source = schema.StationSource(s)
	}
	if f := request.GetString("stations_file", ""); f != "" {
		cfg.StationsFile = f
	}
	if cfg.Source == schema.FileSource && cfg.StationsFile == "" {
		return fmt.Errorf("stations_file is required when source is %s", schema.FileSource)
	}
	return nil
}

func (h *toolHandler) handleGetStationEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyStationOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetStationEventResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event extraction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDockTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyStationOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeline, err := core.GetTimelineResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline construction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(timeline, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUsageSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.HiresFile = request.GetString("hires_file", "")
	cfg.Granularity = schema.DailyGranularity
	if g := request.GetInt("fill_gap_limit", 0); g > 0 {
		cfg.FillGapLimit = g
	}

	rows, err := core.GetUsageResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("usage join failed: %v", err)), nil
	}

	if l := request.GetInt("limit", 0); l > 0 && l < len(rows) {
		rows = rows[len(rows)-l:]
	}

	// NaN is not representable in JSON, so undefined ratios go through the
	// same nullable view the CLI JSON output uses.
	jsonData, _ := json.MarshalIndent(outwriter.UsageRowsJSON(rows), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBuildFeatureDatasets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.HiresFile = request.GetString("hires_file", "")
	cfg.OutDir = request.GetString("out_dir", "")
	cfg.Granularity = schema.DailyGranularity
	if f := request.GetString("restrictions_file", ""); f != "" {
		cfg.RestrictionsFile = f
	}
	if cfg.TrainFrac == 0 {
		cfg.TrainFrac = contract.DefaultTrainFrac
	}
	if tf := request.GetFloat("train_frac", 0); tf > 0 {
		cfg.TrainFrac = tf
	}
	if hf := request.GetFloat("holdout_frac", 0); hf > 0 {
		cfg.HoldoutFrac = hf
	}

	cfg.Output = schema.ParquetOut
	if request.GetString("format", "") == "csv" {
		cfg.Output = schema.CSVOut
	}
	if cfg.Precision == 0 {
		cfg.Precision = contract.DefaultPrecision
	}

	datasets, err := core.GetFeatureResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline failed: %v", err)), nil
	}

	summaries := make([]outwriter.FeatureSummary, 0, len(datasets))
	for _, ds := range datasets {
		summaries = append(summaries, outwriter.SummarizeDataset(ds))
	}
	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
