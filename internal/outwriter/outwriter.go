// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRisks prints the classified drivers of a report using the configured output format.
func (ow *OutWriter) WriteRisks(report *schema.FleetReport, records []schema.DriverRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintRiskResults(report, records, cfg, duration)
}

// WriteImpact prints the economic impact and risk distribution of a report.
func (ow *OutWriter) WriteImpact(report *schema.FleetReport, cfg *contract.Config) error {
	return PrintImpact(report, cfg)
}

// WriteBehaviors prints the behavior frequency rollup of a report.
func (ow *OutWriter) WriteBehaviors(report *schema.FleetReport, cfg *contract.Config) error {
	return PrintBehaviors(report, cfg)
}

// WriteCatalog prints the active behavior catalog and classification gates.
func (ow *OutWriter) WriteCatalog(catalog schema.Catalog, thresholds schema.RiskThresholds, cfg *contract.Config) error {
	return PrintCatalog(catalog, thresholds, cfg)
}

// WriteReport prints every section of a report.
func (ow *OutWriter) WriteReport(report *schema.FleetReport, records []schema.DriverRecord, cfg *contract.Config, duration time.Duration) error {
	return PrintReport(report, records, cfg, duration)
}
