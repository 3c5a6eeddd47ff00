// Package schema has the data model, behavior catalog and shared constants for fleetrisk.
package schema

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRecord is returned when a driver record violates the input contract.
var ErrInvalidRecord = errors.New("invalid driver record")

// DriverRecord is one ingested telemetry row for a vehicle and its driver.
// Behavior counts are read through Count so that scoring can iterate the catalog.
type DriverRecord struct {
	VehicleID      string  `json:"vehicleId"`
	DriverName     string  `json:"driverName"`
	Date           string  `json:"date,omitempty"`
	DistanceKm     float64 `json:"distanceKm"`
	DrivingTimeMin float64 `json:"drivingTimeMin"`
	MaxSpeed       float64 `json:"maxSpeed"`

	SpeedingCount                   int `json:"speedingCount"`
	SuddenAccelCount                int `json:"suddenAccelCount"`
	SuddenDecelCount                int `json:"suddenDecelCount"`
	SuddenStopCount                 int `json:"suddenStopCount"`
	SuddenStartCount                int `json:"suddenStartCount"`
	LongSpeedingMin                 int `json:"longSpeedingMin"`
	GearShiftStoppedCount           int `json:"gearShiftStoppedCount"`
	ContinuousDrivingViolationCount int `json:"continuousDrivingViolationCount"`
	FatigueRiskCount                int `json:"fatigueRiskCount"`
	DUISuspicionCount               int `json:"duiSuspicionCount"`
	RestViolationCount              int `json:"restViolationCount"`
	TrafficLawViolationCount        int `json:"trafficLawViolationCount"`
}

// countFields maps each behavior key to its counter on a DriverRecord.
var countFields = map[BehaviorKey]func(*DriverRecord) *int{
	SpeedingKey:                   func(r *DriverRecord) *int { return &r.SpeedingCount },
	SuddenAccelKey:                func(r *DriverRecord) *int { return &r.SuddenAccelCount },
	SuddenDecelKey:                func(r *DriverRecord) *int { return &r.SuddenDecelCount },
	SuddenStopKey:                 func(r *DriverRecord) *int { return &r.SuddenStopCount },
	SuddenStartKey:                func(r *DriverRecord) *int { return &r.SuddenStartCount },
	LongSpeedingKey:               func(r *DriverRecord) *int { return &r.LongSpeedingMin },
	GearShiftStoppedKey:           func(r *DriverRecord) *int { return &r.GearShiftStoppedCount },
	ContinuousDrivingViolationKey: func(r *DriverRecord) *int { return &r.ContinuousDrivingViolationCount },
	FatigueRiskKey:                func(r *DriverRecord) *int { return &r.FatigueRiskCount },
	DUISuspicionKey:               func(r *DriverRecord) *int { return &r.DUISuspicionCount },
	RestViolationKey:              func(r *DriverRecord) *int { return &r.RestViolationCount },
	TrafficLawViolationKey:        func(r *DriverRecord) *int { return &r.TrafficLawViolationCount },
}

// IsKnownBehavior reports whether key has a counter on DriverRecord.
func IsKnownBehavior(key BehaviorKey) bool {
	_, ok := countFields[key]
	return ok
}

// Count returns the record's counter for key, or 0 when the key is unknown.
func (r *DriverRecord) Count(key BehaviorKey) int {
	field, ok := countFields[key]
	if !ok {
		return 0
	}
	return *field(r)
}

// SetCount sets the record's counter for key. Unknown keys are ignored.
func (r *DriverRecord) SetCount(key BehaviorKey, n int) {
	if field, ok := countFields[key]; ok {
		*field(r) = n
	}
}

// Validate checks the non-negativity contract the scoring core relies on.
func (r *DriverRecord) Validate() error {
	if math.IsNaN(r.DistanceKm) || math.IsInf(r.DistanceKm, 0) || r.DistanceKm < 0 {
		return fmt.Errorf("%w: vehicle %q has distance %v", ErrInvalidRecord, r.VehicleID, r.DistanceKm)
	}
	for key, field := range countFields {
		if n := *field(r); n < 0 {
			return fmt.Errorf("%w: vehicle %q has negative %s count %d", ErrInvalidRecord, r.VehicleID, key, n)
		}
	}
	return nil
}

// ValidateRecords validates every record and reports the first offending index.
func ValidateRecords(records []DriverRecord) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// RiskResult is the classification of one driver within a scored batch.
type RiskResult struct {
	VehicleID   string    `json:"vehicleId"`
	DriverName  string    `json:"driverName"`
	TotalScore  float64   `json:"totalScore"`  // weighted incidents per 100 km
	RankPercent float64   `json:"rankPercent"` // 0 = worst in the batch
	RiskLevel   RiskLevel `json:"riskLevel"`
}

// EconomicImpact is the fleet-wide estimate attributable to tracked behaviors.
type EconomicImpact struct {
	FuelSavedLiters float64 `json:"fuelSavedLiters"`
	CostSavedKrw    float64 `json:"costSavedKrw"`
	CO2ReducedKg    float64 `json:"co2ReducedKg"`
}

// BehaviorFrequency is the fleet-wide rollup of a single behavior.
type BehaviorFrequency struct {
	Key         BehaviorKey `json:"key"`
	Label       string      `json:"label"`
	TotalCount  int         `json:"totalCount"`
	AvgPer100Km float64     `json:"avgPer100Km"`
}

// RiskDistribution counts drivers per risk level.
type RiskDistribution struct {
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Green  int `json:"green"`
}

// Total returns the number of classified drivers.
func (d RiskDistribution) Total() int {
	return d.Red + d.Yellow + d.Green
}

// FleetReport bundles every derived view over one record snapshot.
type FleetReport struct {
	ReportID     string              `json:"reportId"`
	GeneratedAt  time.Time           `json:"generatedAt"`
	RecordCount  int                 `json:"recordCount"`
	FuelPrice    float64             `json:"fuelPrice"`
	Risks        []RiskResult        `json:"risks"`
	Distribution RiskDistribution    `json:"distribution"`
	Impact       EconomicImpact      `json:"impact"`
	Behaviors    []BehaviorFrequency `json:"behaviors"`
	Insight      string              `json:"insight,omitempty"`
}
