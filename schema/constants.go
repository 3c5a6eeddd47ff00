package schema

// Custom string types for type safety.
type (
	// BehaviorKey identifies a tracked driving behavior.
	BehaviorKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// RiskLevel is the three-tier driver classification.
	RiskLevel string
)

// Behavior keys tracked by the catalog.
const (
	SpeedingKey                   BehaviorKey = "speeding"
	SuddenAccelKey                BehaviorKey = "sudden_accel"
	SuddenDecelKey                BehaviorKey = "sudden_decel"
	SuddenStopKey                 BehaviorKey = "sudden_stop"
	SuddenStartKey                BehaviorKey = "sudden_start"
	LongSpeedingKey               BehaviorKey = "long_speeding" // minutes, not incidents
	GearShiftStoppedKey           BehaviorKey = "gear_shift_stopped"
	ContinuousDrivingViolationKey BehaviorKey = "continuous_driving_violation"
	FatigueRiskKey                BehaviorKey = "fatigue_risk"
	DUISuspicionKey               BehaviorKey = "dui_suspicion"
	RestViolationKey              BehaviorKey = "rest_violation"
	TrafficLawViolationKey        BehaviorKey = "traffic_law_violation"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All risk levels, most severe first.
const (
	RedLevel    RiskLevel = "Red"
	YellowLevel RiskLevel = "Yellow"
	GreenLevel  RiskLevel = "Green"
)

// Fleet-wide economic constants.
const (
	CO2PerLiter      = 2.31   // kg of CO2 per liter of fuel
	DefaultFuelPrice = 1650.0 // currency per liter
)

// AllRiskLevels lists the risk levels in severity order.
var AllRiskLevels = []RiskLevel{RedLevel, YellowLevel, GreenLevel}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}
