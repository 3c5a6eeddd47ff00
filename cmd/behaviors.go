package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/spf13/cobra"
)

// behaviorsCmd rolls behavior counts up across the fleet.
var behaviorsCmd = &cobra.Command{
	Use:   "behaviors [file]",
	Short: "Show how often each behavior occurred across the fleet.",
	Long: `Count every tracked behavior across all vehicles, with its average per 100 km.

Useful for picking the coaching topic that would move the most incidents.

Examples:
  fleetrisk behaviors --demo
  fleetrisk behaviors fleet.csv --output csv --output-file behaviors.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("behavior rollup", core.ExecuteBehaviors)
	},
}
