// Package core has the orchestration logic for loading, scoring and reporting.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/fleetrisk/core/agg"
	"github.com/huangsam/fleetrisk/core/algo"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/internal/ingest"
	"github.com/huangsam/fleetrisk/internal/insight"
	"github.com/huangsam/fleetrisk/internal/outwriter"
	"github.com/huangsam/fleetrisk/schema"
	"golang.org/x/sync/errgroup"
)

// ErrNoInput is returned when neither an input file nor the demo fleet was requested.
var ErrNoInput = errors.New("no input file provided (pass a CSV/JSON path or use --demo)")

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) error

// ExecuteRisks scores the fleet and prints the classified drivers.
// It serves as the main entry point for the 'risks' mode.
func ExecuteRisks(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) error {
	start := time.Now()
	records, report, err := loadAndBuild(ctx, cfg, reader, nil)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRisks(report, records, cfg, duration)
}

// ExecuteImpact prints the economic impact and risk distribution of the fleet.
func ExecuteImpact(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) error {
	_, report, err := loadAndBuild(ctx, cfg, reader, nil)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteImpact(report, cfg)
}

// ExecuteBehaviors prints how often each tracked behavior occurred across the fleet.
func ExecuteBehaviors(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) error {
	_, report, err := loadAndBuild(ctx, cfg, reader, nil)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBehaviors(report, cfg)
}

// ExecuteCatalog prints the active behavior catalog. It reads no records.
func ExecuteCatalog(_ context.Context, cfg *contract.Config, _ contract.RecordReader) error {
	return outwriter.NewOutWriter().WriteCatalog(catalogOf(cfg), thresholdsOf(cfg), cfg)
}

// ExecuteReport builds the full fleet report, including the narrative when enabled.
func ExecuteReport(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) error {
	start := time.Now()
	gen, err := NewGenerator(cfg)
	if err != nil {
		contract.LogWarn("Cannot create insight client", err)
	}
	records, report, err := loadAndBuild(ctx, cfg, reader, gen)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteReport(report, records, cfg, duration)
}

// NewGenerator returns the narrative generator for cfg, or nil when insight is disabled.
func NewGenerator(cfg *contract.Config) (insight.Generator, error) {
	if !cfg.Insight.Enabled {
		return nil, nil
	}
	client, err := insight.NewChatClient(cfg.Insight)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// LoadRecords returns the demo fleet or the records read from cfg.InputPath.
// A nil reader falls back to the file reader from the ingest package.
func LoadRecords(ctx context.Context, cfg *contract.Config, reader contract.RecordReader) ([]schema.DriverRecord, error) {
	if cfg.Demo {
		return ingest.DemoRecords(cfg.Mask), nil
	}
	if cfg.InputPath == "" {
		return nil, ErrNoInput
	}
	if reader == nil {
		reader = ingest.NewReader(cfg.Mask)
	}
	records, err := reader.ReadFile(ctx, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		contract.LogWarn("No driver records found", fmt.Errorf("%s has no data rows", cfg.InputPath))
	}
	return records, nil
}

// BuildReport derives every view of the fleet from one snapshot of records.
// Scoring, impact and behavior frequency run concurrently. When insight is enabled the
// narrative is generated afterwards; a nil gen yields the fallback text.
func BuildReport(ctx context.Context, cfg *contract.Config, records []schema.DriverRecord, gen insight.Generator) (*schema.FleetReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog := catalogOf(cfg)
	scorer := algo.NewScorer(catalog, thresholdsOf(cfg))
	aggregator := agg.NewAggregator(catalog, cfg.CO2PerLiter)

	report := &schema.FleetReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now(),
		RecordCount: len(records),
		FuelPrice:   cfg.FuelPrice,
	}

	// Each goroutine owns distinct report fields; records are only read.
	var g errgroup.Group
	g.Go(func() error {
		risks, err := scorer.Score(records)
		if err != nil {
			return err
		}
		report.Risks = risks
		report.Distribution = agg.RiskDistribution(risks)
		return nil
	})
	g.Go(func() error {
		impact, err := aggregator.EconomicImpact(records, cfg.FuelPrice)
		if err != nil {
			return err
		}
		report.Impact = impact
		return nil
	})
	g.Go(func() error {
		freq, err := aggregator.BehaviorFrequency(records)
		if err != nil {
			return err
		}
		report.Behaviors = freq
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Insight.Enabled {
		report.Insight = insight.Resolve(ctx, gen, insight.BuildSummary(report), cfg.Insight.Timeout)
	}
	return report, nil
}

// loadAndBuild is the shared pipeline of the record-driven modes.
func loadAndBuild(ctx context.Context, cfg *contract.Config, reader contract.RecordReader, gen insight.Generator) ([]schema.DriverRecord, *schema.FleetReport, error) {
	records, err := LoadRecords(ctx, cfg, reader)
	if err != nil {
		return nil, nil, err
	}
	report, err := BuildReport(ctx, cfg, records, gen)
	if err != nil {
		return nil, nil, err
	}
	return records, report, nil
}

// catalogOf returns the configured catalog, or the built-in one when none is set.
func catalogOf(cfg *contract.Config) schema.Catalog {
	if len(cfg.Catalog) == 0 {
		return schema.DefaultCatalog()
	}
	return cfg.Catalog
}

// thresholdsOf returns the configured gates, or the built-in ones when unset.
func thresholdsOf(cfg *contract.Config) schema.RiskThresholds {
	if cfg.Thresholds == (schema.RiskThresholds{}) {
		return schema.DefaultRiskThresholds()
	}
	return cfg.Thresholds
}
