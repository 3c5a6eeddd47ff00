package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fleetrisk/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 50
	MaxResultLimit        = 10000
	DefaultPrecision      = 3
	MaxPrecision          = 4
	DefaultInsightTimeout = 20 * time.Second
	DefaultInsightModel   = "gpt-4o-mini"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// InsightConfig holds the narrative generator settings.
type InsightConfig struct {
	Enabled bool
	BaseURL string
	Model   string
	APIKey  string // Please use env var as this is plaintext
	Timeout time.Duration
}

// Config holds the runtime configuration for a fleet analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	Demo        bool
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Mask        bool
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	FuelPrice   float64
	CO2PerLiter float64

	// Catalog is the default behavior table with config overrides applied.
	Catalog schema.Catalog

	// Thresholds is the classification gate with config overrides applied.
	Thresholds schema.RiskThresholds

	Insight InsightConfig
}

// BehaviorRaw holds the optional overrides for one behavior from the YAML config file.
type BehaviorRaw struct {
	Label           *string  `mapstructure:"label"`
	Weight          *float64 `mapstructure:"weight"`
	FuelPenalty     *float64 `mapstructure:"fuel_penalty"`
	CostPerIncident *float64 `mapstructure:"cost_per_incident"`
}

// ThresholdsRawInput holds classification gate overrides from the YAML config file.
type ThresholdsRawInput struct {
	RedRankPercent    *float64 `mapstructure:"red_rank_percent"`
	RedScore          *float64 `mapstructure:"red_score"`
	YellowRankPercent *float64 `mapstructure:"yellow_rank_percent"`
	YellowScore       *float64 `mapstructure:"yellow_score"`
}

// InsightRawInput holds the narrative generator settings from all sources.
type InsightRawInput struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base-url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api-key"`
	Timeout string `mapstructure:"timeout"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit       int     `mapstructure:"limit"`
	Output      string  `mapstructure:"output"`
	OutputFile  string  `mapstructure:"output-file"`
	Precision   int     `mapstructure:"precision"`
	Color       string  `mapstructure:"color"`
	Width       int     `mapstructure:"width"`
	Detail      bool    `mapstructure:"detail"`
	Mask        bool    `mapstructure:"mask"`
	Demo        bool    `mapstructure:"demo"`
	FuelPrice   float64 `mapstructure:"fuel-price"`
	CO2PerLiter float64 `mapstructure:"co2-per-liter"`

	// --- Fields from reportCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Behavior overrides from config file, keyed by behavior key ---
	Catalog map[string]BehaviorRaw `mapstructure:"catalog"`

	// --- Risk thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`

	// --- Narrative generator ---
	Insight InsightRawInput `mapstructure:"insight"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Catalog != nil {
		clone.Catalog = c.Catalog.Clone()
	}
	return &clone
}

// HasInput reports whether records can be loaded from a file or the demo fleet.
func (c *Config) HasInput() bool {
	return c.Demo || c.InputPath != ""
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEconomics(cfg, input); err != nil {
		return err
	}
	if err := processCatalog(cfg, input); err != nil {
		return err
	}
	if err := processRiskThresholds(cfg, input); err != nil {
		return err
	}
	if err := processInsight(cfg, input); err != nil {
		return err
	}
	return resolveInputPath(cfg, input)
}

// validateSimpleInputs processes and validates all display related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Mask = input.Mask
	cfg.Demo = input.Demo
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}
	return nil
}

// processEconomics validates the fuel price and CO2 factor.
func processEconomics(cfg *Config, input *ConfigRawInput) error {
	if input.FuelPrice < 0 || math.IsNaN(input.FuelPrice) || math.IsInf(input.FuelPrice, 0) {
		return fmt.Errorf("fuel price must be a finite non-negative number (received %v)", input.FuelPrice)
	}
	cfg.FuelPrice = input.FuelPrice

	cfg.CO2PerLiter = input.CO2PerLiter
	if cfg.CO2PerLiter == 0 {
		cfg.CO2PerLiter = schema.CO2PerLiter
	}
	if cfg.CO2PerLiter < 0 || math.IsNaN(cfg.CO2PerLiter) || math.IsInf(cfg.CO2PerLiter, 0) {
		return fmt.Errorf("co2 per liter must be a finite positive number (received %v)", input.CO2PerLiter)
	}
	return nil
}

// ApplyCatalogOverrides returns a copy of base with the raw overrides applied.
// Keys are matched case-insensitively and the result is validated.
func ApplyCatalogOverrides(base schema.Catalog, overrides map[string]BehaviorRaw) (schema.Catalog, error) {
	catalog := base.Clone()
	for rawKey, o := range overrides {
		key := schema.BehaviorKey(strings.ToLower(strings.TrimSpace(rawKey)))
		idx := -1
		for i := range catalog {
			if catalog[i].Key == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown behavior %q in catalog overrides", schema.ErrInvalidCatalog, rawKey)
		}

		b := &catalog[idx]
		if o.Label != nil {
			b.Label = *o.Label
		}
		if o.Weight != nil {
			b.Weight = *o.Weight
		}
		if o.FuelPenalty != nil {
			b.FuelPenalty = *o.FuelPenalty
		}
		if o.CostPerIncident != nil {
			b.CostPerIncident = *o.CostPerIncident
		}
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// processCatalog builds the final behavior catalog from defaults + overrides.
func processCatalog(cfg *Config, input *ConfigRawInput) error {
	catalog, err := ApplyCatalogOverrides(schema.DefaultCatalog(), input.Catalog)
	if err != nil {
		return err
	}
	cfg.Catalog = catalog
	return nil
}

// processRiskThresholds builds the final classification gate.
// Command-line --thresholds-override takes precedence over config file settings.
func processRiskThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.DefaultRiskThresholds()

	if input.Thresholds.RedRankPercent != nil {
		thresholds.RedRankPercent = *input.Thresholds.RedRankPercent
	}
	if input.Thresholds.RedScore != nil {
		thresholds.RedScore = *input.Thresholds.RedScore
	}
	if input.Thresholds.YellowRankPercent != nil {
		thresholds.YellowRankPercent = *input.Thresholds.YellowRankPercent
	}
	if input.Thresholds.YellowScore != nil {
		thresholds.YellowScore = *input.Thresholds.YellowScore
	}

	if input.ThresholdsStr != "" {
		if err := parseRiskThresholdsString(input.ThresholdsStr, &thresholds); err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
	}

	if err := thresholds.Validate(); err != nil {
		return err
	}
	cfg.Thresholds = thresholds
	return nil
}

// processInsight validates the narrative generator settings.
func processInsight(cfg *Config, input *ConfigRawInput) error {
	in := input.Insight
	cfg.Insight = InsightConfig{
		Enabled: in.Enabled,
		BaseURL: strings.TrimRight(strings.TrimSpace(in.BaseURL), "/"),
		Model:   strings.TrimSpace(in.Model),
		APIKey:  in.APIKey,
		Timeout: DefaultInsightTimeout,
	}
	if cfg.Insight.Model == "" {
		cfg.Insight.Model = DefaultInsightModel
	}

	if in.Timeout != "" {
		timeout, err := time.ParseDuration(in.Timeout)
		if err != nil {
			return fmt.Errorf("invalid insight timeout '%s': %w", in.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("insight timeout must be positive (received %s)", in.Timeout)
		}
		cfg.Insight.Timeout = timeout
	}

	if cfg.Insight.Enabled && cfg.Insight.BaseURL == "" {
		return fmt.Errorf("insight is enabled but no insight base-url is configured")
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveInputPath makes the input path absolute and checks that it is a readable file.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.InputPathStr)
	if path == "" {
		cfg.InputPath = ""
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory, expected a .csv or .json file", path)
	}
	cfg.InputPath = filepath.Clean(absPath)
	return nil
}

// parseRiskThresholdsString parses a string like "red-rank:20,red-score:0.25,yellow-rank:50,yellow-score:0.08"
// into the given thresholds. Keys that are not present keep their current value.
func parseRiskThresholdsString(s string, thresholds *schema.RiskThresholds) error {
	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return fmt.Errorf("invalid threshold format '%s', expected 'key:value'", part)
		}

		keyStr := strings.ToLower(strings.TrimSpace(keyValue[0]))
		valueStr := strings.TrimSpace(keyValue[1])

		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold value '%s' for %s: %w", valueStr, keyStr, err)
		}

		switch keyStr {
		case "red-rank":
			thresholds.RedRankPercent = value
		case "red-score":
			thresholds.RedScore = value
		case "yellow-rank":
			thresholds.YellowRankPercent = value
		case "yellow-score":
			thresholds.YellowScore = value
		default:
			return fmt.Errorf("invalid threshold key '%s', must be red-rank, red-score, yellow-rank, or yellow-score", keyStr)
		}
	}
	return nil
}
