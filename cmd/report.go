package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/spf13/cobra"
)

// reportCmd builds every view in one pass.
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Build the full fleet safety report.",
	Long: `Build one report with the ranked drivers, risk distribution, economic impact and
behavior rollup, all derived from the same snapshot of records.

With --insight, a short narrative for fleet managers is requested from an
OpenAI-compatible endpoint. If the endpoint fails or times out, a fixed fallback
text is used and the rest of the report is unaffected. Only fleet totals are sent,
never per-driver data. Set the key with FLEETRISK_INSIGHT_API_KEY.

Parquet output writes three files using --output-file as the prefix:
<prefix>.risks.parquet, <prefix>.behaviors.parquet and <prefix>.impact.parquet.

Examples:
  # Full report for the demo fleet
  fleetrisk report --demo

  # Report with a narrative from a local endpoint
  fleetrisk report fleet.csv --insight --insight-url http://localhost:11434

  # Machine-readable report
  fleetrisk report fleet.csv --output json --output-file report.json

  # Analytics-friendly export
  fleetrisk report fleet.csv --output parquet --output-file out/fleet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("fleet report", core.ExecuteReport)
	},
}
