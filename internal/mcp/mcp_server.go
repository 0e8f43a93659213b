// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/velostat/velostat/internal/contract"
)

// NewMCPServer initializes and configures the velostat MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Velostat Data Preparation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_station_events ---
	s.AddTool(mcp.NewTool("get_station_events",
		mcp.WithDescription("Extract dock install and removal events from TfL BikePoint station metadata."),
		mcp.WithString("source", mcp.Description("Station source (api or file). Defaults to the server's configured source."), mcp.Enum("api", "file")),
		mcp.WithString("stations_file", mcp.Description("Path to a BikePoint JSON snapshot when source is 'file'.")),
	), h.handleGetStationEvents)

	// --- 2. Tool: get_dock_timeline ---
	s.AddTool(mcp.NewTool("get_dock_timeline",
		mcp.WithDescription("Build the cumulative daily timeline of active stations and docks."),
		mcp.WithString("source", mcp.Description("Station source (api or file)."), mcp.Enum("api", "file")),
		mcp.WithString("stations_file", mcp.Description("Path to a BikePoint JSON snapshot when source is 'file'.")),
	), h.handleGetDockTimeline)

	// --- 3. Tool: get_usage_summary ---
	s.AddTool(mcp.NewTool("get_usage_summary",
		mcp.WithDescription("Join daily hire counts against the dock timeline and report hires per dock."),
		mcp.WithString("hires_file", mcp.Description("Path to the daily hire-count CSV."), mcp.Required()),
		mcp.WithNumber("fill_gap_limit", mcp.Description("Max days of dock forward-fill past the timeline end (0 = unlimited).")),
		mcp.WithNumber("limit", mcp.Description("Return only the most recent N rows.")),
	), h.handleGetUsageSummary)

	// --- 4. Tool: build_feature_datasets ---
	s.AddTool(mcp.NewTool("build_feature_datasets",
		mcp.WithDescription("Run the full preparation pipeline and emit train/test feature datasets."),
		mcp.WithString("hires_file", mcp.Description("Path to the daily hire-count CSV."), mcp.Required()),
		mcp.WithString("out_dir", mcp.Description("Directory for the emitted dataset files."), mcp.Required()),
		mcp.WithString("restrictions_file", mcp.Description("Path to the COVID restrictions CSV (optional).")),
		mcp.WithNumber("train_frac", mcp.Description("Training proportion in (0,1). Defaults to 0.9.")),
		mcp.WithNumber("holdout_frac", mcp.Description("Holdout proportion carved off the series tail (0 disables).")),
		mcp.WithString("format", mcp.Description("Dataset file format."), mcp.Enum("parquet", "csv")),
	), h.handleBuildFeatureDatasets)

	return s
}

// StartMCPServer starts the velostat MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
