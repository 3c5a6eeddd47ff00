package ingest

import "github.com/huangsam/fleetrisk/schema"

// Placeholders for missing identity columns.
const (
	UnregisteredVehicle = "미등록"
	UnknownDriver       = "Unknown"
)

// Header aliases in priority order. Korean names come from the digital tachograph
// export format; English names cover hand-made sheets.
var (
	vehicleAliases     = []string{"차량번호", "차량", "번호", "CarNumber", "CarNo", "Plate"}
	driverAliases      = []string{"운전자명", "성명", "이름", "DriverName", "Name", "운전자"}
	dateAliases        = []string{"운행일자", "날짜", "Date"}
	distanceAliases    = []string{"운행거리(km)", "거리", "Distance", "km"}
	drivingTimeAliases = []string{"운전시간(분)", "시간", "DrivingTime", "min"}
	maxSpeedAliases    = []string{"최고속도(km/h)", "최고속도", "MaxSpeed"}
)

var behaviorAliases = map[schema.BehaviorKey][]string{
	schema.SpeedingKey:                   {"과속횟수", "과속", "Speeding"},
	schema.SuddenAccelKey:                {"급가속횟수", "급가속", "SuddenAccel"},
	schema.SuddenDecelKey:                {"급감속횟수", "급감속", "SuddenDecel"},
	schema.SuddenStopKey:                 {"급정지횟수", "급정지", "SuddenStop"},
	schema.SuddenStartKey:                {"급출발횟수", "급출발", "SuddenStart"},
	schema.LongSpeedingKey:               {"장기과속시간(분)", "장기과속", "LongSpeeding"},
	schema.GearShiftStoppedKey:           {"정차중기어변속횟수", "기어변속", "GearShift"},
	schema.ContinuousDrivingViolationKey: {"연속운행위반횟수", "연속운행", "ContViolation"},
	schema.FatigueRiskKey:                {"피로누적위험횟수", "피로누적", "Fatigue"},
	schema.DUISuspicionKey:               {"음주운전의심횟수", "음주운전", "DUI"},
	schema.RestViolationKey:              {"휴식시간미준수횟수", "휴식시간", "RestViolation"},
	schema.TrafficLawViolationKey:        {"법규위반횟수", "법규위반", "LawViolation"},
}

// behaviorOrder fixes the mapping order so MapRow is deterministic.
var behaviorOrder = []schema.BehaviorKey{
	schema.SpeedingKey,
	schema.SuddenAccelKey,
	schema.SuddenDecelKey,
	schema.SuddenStopKey,
	schema.SuddenStartKey,
	schema.LongSpeedingKey,
	schema.GearShiftStoppedKey,
	schema.ContinuousDrivingViolationKey,
	schema.FatigueRiskKey,
	schema.DUISuspicionKey,
	schema.RestViolationKey,
	schema.TrafficLawViolationKey,
}
