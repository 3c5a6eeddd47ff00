// Package parquet provides data structures and functions for exporting fleet
// risk results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/fleetrisk/schema"
	"github.com/parquet-go/parquet-go"
)

// RiskRow represents one classified driver in a report.
type RiskRow struct {
	// ReportID links the row to its report
	ReportID string `parquet:"report_id,snappy,dict"`

	// GeneratedAt is when the report was built (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	// Rank is the 1-based position in descending score order
	Rank int32 `parquet:"rank,snappy"`

	VehicleID  string  `parquet:"vehicle_id,snappy"`
	DriverName string  `parquet:"driver_name,snappy"`
	TotalScore float64 `parquet:"total_score,snappy"`

	// RankPercent is the percentile position, 0 being the riskiest driver
	RankPercent float64 `parquet:"rank_percent,snappy"`

	// RiskLevel is Red, Yellow or Green
	RiskLevel string `parquet:"risk_level,snappy,dict"`

	// The raw fields below are only filled for detailed exports (nullable)
	DistanceKm          *float64 `parquet:"distance_km,optional,snappy"`
	SuddenAccelCount    *int32   `parquet:"sudden_accel_count,optional,snappy"`
	SuddenStartCount    *int32   `parquet:"sudden_start_count,optional,snappy"`
	TrafficLawViolation *int32   `parquet:"traffic_law_violation_count,optional,snappy"`
}

// BehaviorRow represents the fleet-wide frequency of one behavior.
type BehaviorRow struct {
	ReportID    string  `parquet:"report_id,snappy,dict"`
	Key         string  `parquet:"behavior_key,snappy"`
	Label       string  `parquet:"label,snappy"`
	TotalCount  int64   `parquet:"total_count,snappy"`
	AvgPer100Km float64 `parquet:"avg_per_100km,snappy"`
}

// ImpactRow represents the fleet totals of one report.
type ImpactRow struct {
	ReportID        string    `parquet:"report_id,snappy"`
	GeneratedAt     time.Time `parquet:"generated_at,snappy"`
	RecordCount     int32     `parquet:"record_count,snappy"`
	FuelPrice       float64   `parquet:"fuel_price,snappy"`
	FuelSavedLiters float64   `parquet:"fuel_saved_liters,snappy"`
	CostSavedKrw    float64   `parquet:"cost_saved_krw,snappy"`
	CO2ReducedKg    float64   `parquet:"co2_reduced_kg,snappy"`
	RedCount        int32     `parquet:"red_count,snappy"`
	YellowCount     int32     `parquet:"yellow_count,snappy"`
	GreenCount      int32     `parquet:"green_count,snappy"`
}

// writeParquet writes data to outputPath with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteRisksParquet writes a slice of RiskRow structs to a Parquet file.
func WriteRisksParquet(data []RiskRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBehaviorsParquet writes a slice of BehaviorRow structs to a Parquet file.
func WriteBehaviorsParquet(data []BehaviorRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteImpactParquet writes a slice of ImpactRow structs to a Parquet file.
func WriteImpactParquet(data []ImpactRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRisks converts ranked risk results into RiskRow values.
// When records is non-nil the raw fields are joined back by vehicle id.
func ConvertRisks(reportID string, generatedAt time.Time, risks []schema.RiskResult, records map[string]*schema.DriverRecord) []RiskRow {
	result := make([]RiskRow, len(risks))
	for i, r := range risks {
		row := RiskRow{
			ReportID:    reportID,
			GeneratedAt: generatedAt,
			Rank:        int32(i + 1),
			VehicleID:   r.VehicleID,
			DriverName:  r.DriverName,
			TotalScore:  r.TotalScore,
			RankPercent: r.RankPercent,
			RiskLevel:   string(r.RiskLevel),
		}
		if raw, ok := records[r.VehicleID]; ok {
			distance := raw.DistanceKm
			accel := int32(raw.SuddenAccelCount)
			start := int32(raw.SuddenStartCount)
			law := int32(raw.TrafficLawViolationCount)
			row.DistanceKm = &distance
			row.SuddenAccelCount = &accel
			row.SuddenStartCount = &start
			row.TrafficLawViolation = &law
		}
		result[i] = row
	}
	return result
}

// ConvertBehaviors converts behavior frequencies into BehaviorRow values.
func ConvertBehaviors(reportID string, freq []schema.BehaviorFrequency) []BehaviorRow {
	result := make([]BehaviorRow, len(freq))
	for i, f := range freq {
		result[i] = BehaviorRow{
			ReportID:    reportID,
			Key:         string(f.Key),
			Label:       f.Label,
			TotalCount:  int64(f.TotalCount),
			AvgPer100Km: f.AvgPer100Km,
		}
	}
	return result
}

// ConvertImpact converts report totals into a single ImpactRow.
func ConvertImpact(report *schema.FleetReport) ImpactRow {
	return ImpactRow{
		ReportID:        report.ReportID,
		GeneratedAt:     report.GeneratedAt,
		RecordCount:     int32(report.RecordCount),
		FuelPrice:       report.FuelPrice,
		FuelSavedLiters: report.Impact.FuelSavedLiters,
		CostSavedKrw:    report.Impact.CostSavedKrw,
		CO2ReducedKg:    report.Impact.CO2ReducedKg,
		RedCount:        int32(report.Distribution.Red),
		YellowCount:     int32(report.Distribution.Yellow),
		GreenCount:      int32(report.Distribution.Green),
	}
}

// WriteReportParquet writes the three tables of a report next to each other:
// <prefix>.risks.parquet, <prefix>.behaviors.parquet and <prefix>.impact.parquet.
// It returns the paths written.
func WriteReportParquet(report *schema.FleetReport, records map[string]*schema.DriverRecord, prefix string) ([]string, error) {
	risksFile := prefix + ".risks.parquet"
	if err := WriteRisksParquet(ConvertRisks(report.ReportID, report.GeneratedAt, report.Risks, records), risksFile); err != nil {
		return nil, fmt.Errorf("failed to write risks: %w", err)
	}

	behaviorsFile := prefix + ".behaviors.parquet"
	if err := WriteBehaviorsParquet(ConvertBehaviors(report.ReportID, report.Behaviors), behaviorsFile); err != nil {
		return nil, fmt.Errorf("failed to write behaviors: %w", err)
	}

	impactFile := prefix + ".impact.parquet"
	if err := WriteImpactParquet([]ImpactRow{ConvertImpact(report)}, impactFile); err != nil {
		return nil, fmt.Errorf("failed to write impact: %w", err)
	}

	return []string{risksFile, behaviorsFile, impactFile}, nil
}
