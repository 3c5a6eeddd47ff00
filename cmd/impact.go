package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/spf13/cobra"
)

// impactCmd estimates what risky driving costs the fleet.
var impactCmd = &cobra.Command{
	Use:   "impact [file]",
	Short: "Estimate fuel, cost and CO2 attributable to risky driving.",
	Long: `Estimate the savings available if risky behaviors were eliminated.

Fuel is the sum of each behavior count times its fuel penalty. Cost is the larger of
the fuel cost at --fuel-price and the sum of per-incident costs. CO2 is fuel times
--co2-per-liter. The risk level distribution of the fleet is shown alongside.

Examples:
  # Estimate impact for the demo fleet
  fleetrisk impact --demo

  # Use a different fuel price
  fleetrisk impact fleet.csv --fuel-price 1800

  # Export to JSON for a dashboard
  fleetrisk impact fleet.csv --output json --output-file impact.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("impact estimation", core.ExecuteImpact)
	},
}
