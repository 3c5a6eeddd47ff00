package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/fleetrisk/core/algo"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/internal/parquet"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRiskResults outputs the classified drivers, dispatching based on the output format configured.
// Raw record fields are joined back by vehicle id when cfg.Detail is set.
func PrintRiskResults(report *schema.FleetReport, records []schema.DriverRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	risks := algo.TopRisks(report.Risks, cfg.ResultLimit)

	var idx map[string]*schema.DriverRecord
	if cfg.Detail {
		idx = schema.IndexRecords(records)
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONRisks(w, risks, idx)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRisks(w, risks, idx, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertRisks(report.ReportID, report.GeneratedAt, risks, idx)
		if err := parquet.WriteRisksParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRiskTable(w, risks, idx, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing top %d of %d drivers (red: %d, yellow: %d, green: %d). Scored in %v\n",
				len(risks), len(report.Risks), report.Distribution.Red, report.Distribution.Yellow, report.Distribution.Green, duration)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeRiskTable generates and writes the human-readable risk table.
func writeRiskTable(w io.Writer, risks []schema.RiskResult, idx map[string]*schema.DriverRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Vehicle", "Driver", "Score", "Rank %", "Level"}
	if idx != nil {
		headers = append(headers, "Distance", "Accel", "Start", "Law")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	labelFor := contract.GetPlainLabel
	if cfg.UseColors {
		labelFor = contract.GetColorLabel
	}

	var data [][]string
	for i, r := range risks {
		row := []string{
			strconv.Itoa(i + 1),
			r.VehicleID,
			contract.TruncateText(r.DriverName, nameWidth),
			fmtFloat(r.TotalScore),
			fmt.Sprintf("%.0f", r.RankPercent),
			labelFor(r.RiskLevel),
		}
		if idx != nil {
			row = append(row, detailColumns(idx[r.VehicleID], fmtFloat, intFmt)...)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// detailColumns formats the raw fields shown next to a risk, matching the spreadsheet export.
func detailColumns(raw *schema.DriverRecord, fmtFloat func(float64) string, intFmt string) []string {
	if raw == nil {
		return []string{"", "", "", ""}
	}
	return []string{
		fmtFloat(raw.DistanceKm),
		fmt.Sprintf(intFmt, raw.SuddenAccelCount),
		fmt.Sprintf(intFmt, raw.SuddenStartCount),
		fmt.Sprintf(intFmt, raw.TrafficLawViolationCount),
	}
}

// writeCSVRisks writes the classified drivers in CSV format.
func writeCSVRisks(w io.Writer, risks []schema.RiskResult, idx map[string]*schema.DriverRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "vehicle_id", "driver_name", "total_score", "rank_percent", "risk_level"}
	if idx != nil {
		header = append(header, "distance_km", "sudden_accel_count", "sudden_start_count", "traffic_law_violation_count")
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range risks {
			rec := []string{
				strconv.Itoa(i + 1),
				r.VehicleID,
				r.DriverName,
				fmtFloat(r.TotalScore),
				fmtFloat(r.RankPercent),
				contract.GetPlainLabel(r.RiskLevel),
			}
			if idx != nil {
				rec = append(rec, detailColumns(idx[r.VehicleID], fmtFloat, intFmt)...)
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// jsonRiskResult is a ranked risk with optional raw fields.
type jsonRiskResult struct {
	schema.EnrichedRiskResult
	Record *schema.DriverRecord `json:"record,omitempty"`
}

// writeJSONRisks writes the classified drivers in JSON format.
func writeJSONRisks(w io.Writer, risks []schema.RiskResult, idx map[string]*schema.DriverRecord) error {
	enriched := schema.EnrichRisks(risks)
	output := make([]jsonRiskResult, len(enriched))
	for i, r := range enriched {
		output[i] = jsonRiskResult{EnrichedRiskResult: r}
		if idx != nil {
			output[i].Record = idx[r.VehicleID]
		}
	}
	return writeJSON(w, output)
}
