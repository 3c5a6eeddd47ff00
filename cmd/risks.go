package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/spf13/cobra"
)

// risksCmd ranks drivers by safety index.
var risksCmd = &cobra.Command{
	Use:   "risks [file]",
	Short: "Show drivers ranked by safety index and risk level.",
	Long: `Score every driver by weighted risky behaviors per 100 km and classify them.

Each behavior count is multiplied by its catalog weight, summed, and divided by the
distance driven in 100 km units. Drivers are ranked worst first and classified with a
dual gate: a driver is Red when it sits in the worst 20% of the fleet or its score
exceeds 0.25, Yellow when it sits in the worst 50% or its score exceeds 0.08, and Green
otherwise.

Input is a CSV or JSON export with one row per vehicle. Korean and English column
names are recognized; missing counts default to zero.

Examples:
  # Try it on the built-in demo fleet
  fleetrisk risks --demo

  # Rank drivers from a telematics export
  fleetrisk risks fleet.csv --limit 20

  # Include raw distance and incident columns
  fleetrisk risks fleet.csv --detail

  # Tighten the Red gate for a stricter program
  fleetrisk risks fleet.csv --thresholds-override "red-rank:10,red-score:0.2"

  # Export rankings for a spreadsheet
  fleetrisk risks fleet.json --output csv --output-file risks.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("risk scoring", core.ExecuteRisks)
	},
}
