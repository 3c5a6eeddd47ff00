// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the fleet risk MCP server without starting it.
// A nil reader reads CSV and JSON files from disk.
func NewMCPServer(baseCfg *contract.Config, reader contract.RecordReader) *server.MCPServer {
	s := server.NewMCPServer(
		"Fleet Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		reader:  reader,
	}

	inputPath := mcp.WithString("input_path", mcp.Description("Path to a CSV or JSON export of driver records."))
	demo := mcp.WithBoolean("demo", mcp.Description("Use the built-in three-vehicle demo fleet instead of a file."))

	// --- 1. Tool: score_drivers ---
	s.AddTool(mcp.NewTool("score_drivers",
		mcp.WithDescription("Score drivers by weighted risky behaviors per 100 km and classify them as Red, Yellow or Green."),
		inputPath,
		demo,
		mcp.WithNumber("limit", mcp.Description("Limit the number of drivers returned, worst first.")),
	), h.handleScoreDrivers)

	// --- 2. Tool: economic_impact ---
	s.AddTool(mcp.NewTool("economic_impact",
		mcp.WithDescription("Estimate the fuel, cost and CO2 attributable to risky driving across the fleet."),
		inputPath,
		demo,
		mcp.WithNumber("fuel_price", mcp.Description("Fuel price per liter. Defaults to the configured price.")),
	), h.handleEconomicImpact)

	// --- 3. Tool: behavior_frequency ---
	s.AddTool(mcp.NewTool("behavior_frequency",
		mcp.WithDescription("Count each tracked behavior across the fleet, with its rate per 100 km."),
		inputPath,
		demo,
		mcp.WithNumber("top", mcp.Description("Only return the N most frequent behaviors.")),
	), h.handleBehaviorFrequency)

	// --- 4. Tool: fleet_report ---
	s.AddTool(mcp.NewTool("fleet_report",
		mcp.WithDescription("Build the full fleet report: risks, distribution, economic impact, behaviors and narrative."),
		inputPath,
		demo,
	), h.handleFleetReport)

	// --- 5. Tool: get_catalog ---
	s.AddTool(mcp.NewTool("get_catalog",
		mcp.WithDescription("Show the behavior catalog and classification thresholds in use."),
	), h.handleGetCatalog)

	return s
}

// StartMCPServer starts the fleet risk MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, reader contract.RecordReader) error {
	s := NewMCPServer(baseCfg, reader)
	return server.ServeStdio(s)
}
