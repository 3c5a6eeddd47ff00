// Package cmd defines the command-line interface for fleetrisk.
package cmd

import (
	"github.com/huangsam/fleetrisk/core"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(risksCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(behaviorsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("demo", false, "Use the built-in demo fleet instead of an input file")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-vehicle raw fields (distance, accelerations, starts, violations)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of drivers to display")
	rootCmd.PersistentFlags().Bool("mask", true, "Mask driver names on ingestion")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("fuel-price", schema.DefaultFuelPrice, "Fuel price per liter used for cost estimates")
	rootCmd.PersistentFlags().Float64("co2-per-liter", schema.CO2PerLiter, "Kilograms of CO2 emitted per liter of fuel")
	rootCmd.PersistentFlags().String("thresholds-override", "", "Risk gates (format: 'red-rank:20,red-score:0.25,yellow-rank:50,yellow-score:0.08')")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The report flags map onto the nested insight block of the config file
	reportCmd.Flags().Bool("insight", false, "Generate a short narrative with an OpenAI-compatible endpoint")
	reportCmd.Flags().String("insight-url", "", "Base URL of the OpenAI-compatible endpoint")
	reportCmd.Flags().String("insight-model", contract.DefaultInsightModel, "Model name sent to the endpoint")
	for key, flag := range map[string]string{
		"insight.enabled":  "insight",
		"insight.base-url": "insight-url",
		"insight.model":    "insight-model",
	} {
		if err := viper.BindPFlag(key, reportCmd.Flags().Lookup(flag)); err != nil {
			contract.LogFatal("Error binding report flags", err)
		}
	}
}

// runExecutor runs one of the core executors with the shared config and reader.
func runExecutor(name string, execute core.ExecutorFunc) {
	if err := execute(rootCtx, cfg, recordReader); err != nil {
		contract.LogFatal("Cannot run "+name, err)
	}
}
