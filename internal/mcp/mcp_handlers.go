package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/fleetrisk/core"
	"github.com/huangsam/fleetrisk/core/agg"
	"github.com/huangsam/fleetrisk/core/algo"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	reader  contract.RecordReader
}

// impactResult is the payload of the economic_impact tool.
type impactResult struct {
	RecordCount  int                     `json:"recordCount"`
	FuelPrice    float64                 `json:"fuelPrice"`
	Impact       schema.EconomicImpact   `json:"impact"`
	Distribution schema.RiskDistribution `json:"distribution"`
}

// catalogResult is the payload of the get_catalog tool.
type catalogResult struct {
	Behaviors  schema.Catalog        `json:"behaviors"`
	Thresholds schema.RiskThresholds `json:"thresholds"`
}

// configFor clones the base config and applies the input arguments shared by all record tools.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
		cfg.Demo = false
	}
	if request.GetBool("demo", false) {
		cfg.Demo = true
	}
	if !cfg.HasInput() {
		return nil, core.ErrNoInput
	}
	return cfg, nil
}

// buildReport loads records for the request and derives the report.
func (h *toolHandler) buildReport(ctx context.Context, cfg *contract.Config, withInsight bool) (*schema.FleetReport, error) {
	records, err := core.LoadRecords(ctx, cfg, h.reader)
	if err != nil {
		return nil, err
	}
	if !withInsight {
		cfg.Insight.Enabled = false
		return core.BuildReport(ctx, cfg, records, nil)
	}
	gen, err := core.NewGenerator(cfg)
	if err != nil {
		contract.LogWarn("Cannot create insight client", err)
	}
	return core.BuildReport(ctx, cfg, records, gen)
}

func (h *toolHandler) handleScoreDrivers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	report, err := h.buildReport(ctx, cfg, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	enriched := schema.EnrichRisks(algo.TopRisks(report.Risks, cfg.ResultLimit))
	return jsonResult(enriched)
}

func (h *toolHandler) handleEconomicImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}
	if _, ok := request.GetArguments()["fuel_price"]; ok {
		cfg.FuelPrice = request.GetFloat("fuel_price", cfg.FuelPrice)
	}

	report, err := h.buildReport(ctx, cfg, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("impact estimation failed: %v", err)), nil
	}

	return jsonResult(impactResult{
		RecordCount:  report.RecordCount,
		FuelPrice:    report.FuelPrice,
		Impact:       report.Impact,
		Distribution: report.Distribution,
	})
}

func (h *toolHandler) handleBehaviorFrequency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}

	report, err := h.buildReport(ctx, cfg, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("behavior rollup failed: %v", err)), nil
	}

	freq := report.Behaviors
	if n := request.GetInt("top", 0); n > 0 {
		freq = agg.TopBehaviors(freq, n)
	}
	return jsonResult(freq)
}

func (h *toolHandler) handleFleetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}

	report, err := h.buildReport(ctx, cfg, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	report.Risks = algo.TopRisks(report.Risks, cfg.ResultLimit)
	return jsonResult(report)
}

func (h *toolHandler) handleGetCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := h.baseCfg.Catalog
	if len(catalog) == 0 {
		catalog = schema.DefaultCatalog()
	}
	thresholds := h.baseCfg.Thresholds
	if thresholds == (schema.RiskThresholds{}) {
		thresholds = schema.DefaultRiskThresholds()
	}
	return jsonResult(catalogResult{Behaviors: catalog, Thresholds: thresholds})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
