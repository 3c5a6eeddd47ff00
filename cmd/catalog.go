package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/spf13/cobra"
)

// catalogCmd shows the coefficients in effect.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the behavior catalog and risk thresholds in use.",
	Long: `Print every tracked behavior with its risk weight, fuel penalty and per-incident cost,
after applying overrides from the config file.

Overrides live under the catalog key of .fleetrisk.yaml:

  catalog:
    speeding:
      weight: 0.01
      cost_per_incident: 60

Examples:
  fleetrisk catalog
  fleetrisk catalog --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("catalog", core.ExecuteCatalog)
	},
}
