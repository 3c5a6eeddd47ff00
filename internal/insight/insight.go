// Package insight turns fleet results into a short narrative using an
// OpenAI-compatible chat completions endpoint.
package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/fleetrisk/core/agg"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
)

// FallbackInsight is returned whenever the narrative cannot be generated.
const FallbackInsight = "The safety analysis engine is delayed right now. Please rely on the detailed metrics " +
	"in this report and keep safety management first."

// topViolationCount is how many behaviors the summary lists.
const topViolationCount = 3

// Generator produces free text from a fleet summary.
type Generator interface {
	Generate(ctx context.Context, summary Summary) (string, error)
}

// Summary is the compact view of a report that is sent to the generator.
// It never carries per-driver data.
type Summary struct {
	TotalVehicles    int                     `json:"totalVehicles"`
	RiskDistribution schema.RiskDistribution `json:"riskDistribution"`
	EconomicImpact   schema.EconomicImpact   `json:"economicImpact"`
	TopViolations    []string                `json:"topViolations"`
}

// BuildSummary derives a Summary from a finished report.
func BuildSummary(report *schema.FleetReport) Summary {
	top := agg.TopBehaviors(report.Behaviors, topViolationCount)
	violations := make([]string, len(top))
	for i, b := range top {
		violations[i] = fmt.Sprintf("%s: %d", b.Label, b.TotalCount)
	}
	return Summary{
		TotalVehicles:    report.RecordCount,
		RiskDistribution: report.Distribution,
		EconomicImpact:   report.Impact,
		TopViolations:    violations,
	}
}

// Resolve runs gen under timeout and returns its text.
// Any error, timeout or empty answer yields FallbackInsight.
func Resolve(ctx context.Context, gen Generator, summary Summary, timeout time.Duration) string {
	if gen == nil {
		return FallbackInsight
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := gen.Generate(ctx, summary)
	if err != nil {
		contract.LogWarn("Insight generation failed", err)
		return FallbackInsight
	}
	if text == "" {
		return FallbackInsight
	}
	return text
}
