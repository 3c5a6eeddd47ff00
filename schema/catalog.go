package schema

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCatalog is returned when a catalog cannot be used for scoring.
var ErrInvalidCatalog = errors.New("invalid behavior catalog")

// BehaviorDefinition describes one tracked behavior and its coefficients.
type BehaviorDefinition struct {
	Key             BehaviorKey `json:"key"`
	Label           string      `json:"label"`
	Weight          float64     `json:"weight"`          // risk weight per incident
	FuelPenalty     float64     `json:"fuelPenalty"`     // liters per incident
	CostPerIncident float64     `json:"costPerIncident"` // currency per incident
}

// Catalog is the ordered set of behaviors used by scoring and aggregation.
// Order only matters for display and tie-breaks in secondary reporting.
type Catalog []BehaviorDefinition

// DefaultCatalog returns a fresh copy of the built-in behavior table.
func DefaultCatalog() Catalog {
	return Catalog{
		{Key: SpeedingKey, Label: "Speeding", Weight: 0.005, FuelPenalty: 0.05, CostPerIncident: 50},
		{Key: SuddenAccelKey, Label: "Sudden acceleration", Weight: 0.015, FuelPenalty: 0.10, CostPerIncident: 75},
		{Key: SuddenDecelKey, Label: "Sudden deceleration", Weight: 0.008, FuelPenalty: 0.03, CostPerIncident: 40},
		{Key: SuddenStopKey, Label: "Sudden stop", Weight: 0.012, FuelPenalty: 0.05, CostPerIncident: 60},
		{Key: SuddenStartKey, Label: "Sudden start", Weight: 0.015, FuelPenalty: 0.10, CostPerIncident: 75},
		{Key: LongSpeedingKey, Label: "Long speeding (min)", Weight: 0.02, FuelPenalty: 0.15, CostPerIncident: 100},
		{Key: GearShiftStoppedKey, Label: "Gear shift while stopped", Weight: 0.002, FuelPenalty: 0.02, CostPerIncident: 20},
		{Key: ContinuousDrivingViolationKey, Label: "Continuous driving violation", Weight: 0.05},
		{Key: FatigueRiskKey, Label: "Fatigue risk", Weight: 0.08},
		{Key: DUISuspicionKey, Label: "DUI suspicion", Weight: 0.2},
		{Key: RestViolationKey, Label: "Rest time violation", Weight: 0.05},
		{Key: TrafficLawViolationKey, Label: "Traffic law violation", Weight: 0.03},
	}
}

// Lookup returns the definition for key.
func (c Catalog) Lookup(key BehaviorKey) (BehaviorDefinition, bool) {
	for _, b := range c {
		if b.Key == key {
			return b, true
		}
	}
	return BehaviorDefinition{}, false
}

// Clone returns a copy that can be modified without touching c.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

// Validate rejects unknown or duplicate keys and negative or non-finite coefficients.
func (c Catalog) Validate() error {
	seen := make(map[BehaviorKey]struct{}, len(c))
	for _, b := range c {
		if !IsKnownBehavior(b.Key) {
			return fmt.Errorf("%w: unknown behavior %q", ErrInvalidCatalog, b.Key)
		}
		if _, dup := seen[b.Key]; dup {
			return fmt.Errorf("%w: duplicate behavior %q", ErrInvalidCatalog, b.Key)
		}
		seen[b.Key] = struct{}{}

		coefficients := map[string]float64{
			"weight":            b.Weight,
			"fuel_penalty":      b.FuelPenalty,
			"cost_per_incident": b.CostPerIncident,
		}
		for name, v := range coefficients {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s for %q must be a finite non-negative number (got %v)", ErrInvalidCatalog, name, b.Key, v)
			}
		}
	}
	return nil
}

// RiskThresholds holds the dual gate used to classify drivers.
// A driver is promoted to a level when either its rank percent or its score crosses the gate.
type RiskThresholds struct {
	RedRankPercent    float64 `json:"redRankPercent"`
	RedScore          float64 `json:"redScore"`
	YellowRankPercent float64 `json:"yellowRankPercent"`
	YellowScore       float64 `json:"yellowScore"`
}

// DefaultRiskThresholds returns the built-in classification gates.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		RedRankPercent:    20,
		RedScore:          0.25,
		YellowRankPercent: 50,
		YellowScore:       0.08,
	}
}

// Validate checks that rank gates are percentages and score gates are non-negative.
func (t RiskThresholds) Validate() error {
	for name, v := range map[string]float64{"red rank percent": t.RedRankPercent, "yellow rank percent": t.YellowRankPercent} {
		if v < 0 || v > 100 || math.IsNaN(v) {
			return fmt.Errorf("%s must be between 0 and 100 (received %.2f)", name, v)
		}
	}
	for name, v := range map[string]float64{"red score": t.RedScore, "yellow score": t.YellowScore} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite non-negative number (received %v)", name, v)
		}
	}
	return nil
}
