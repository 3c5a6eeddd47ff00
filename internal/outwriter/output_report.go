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
)

// PrintReport outputs every section of a report.
// Parquet output writes one file per section using cfg.OutputFile as the prefix.
func PrintReport(report *schema.FleetReport, records []schema.DriverRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var idx map[string]*schema.DriverRecord
	if cfg.Detail {
		idx = schema.IndexRecords(records)
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		paths, err := parquet.WriteReportParquet(report, idx, cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		for _, p := range paths {
			logWrote("Wrote Parquet", p)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, idx, cfg, fmtFloat, intFmt, duration)
		}, "Wrote report")
	}
}

// writeReportText writes the human-readable report with one table per section.
func writeReportText(w io.Writer, report *schema.FleetReport, idx map[string]*schema.DriverRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Fleet safety report %s (%s), %d vehicles\n\n",
		report.ReportID, report.GeneratedAt.Format(time.RFC3339), report.RecordCount); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Driver risk"); err != nil {
		return err
	}
	if err := writeRiskTable(w, algo.TopRisks(report.Risks, cfg.ResultLimit), idx, cfg, fmtFloat, intFmt); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nEconomic impact"); err != nil {
		return err
	}
	if err := writeImpactTable(w, report, fmtFloat); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nBehavior frequency"); err != nil {
		return err
	}
	if err := writeBehaviorTable(w, report.Behaviors, fmtFloat, intFmt); err != nil {
		return err
	}

	if report.Insight != "" {
		if _, err := fmt.Fprintf(w, "\nSafety insight\n%s\n", report.Insight); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nReport built in %v\n", duration)
	return err
}

// writeCSVReport writes the report in a long format: section, key, metric, value.
func writeCSVReport(w io.Writer, report *schema.FleetReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"section", "key", "metric", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		var rows [][]string
		rows = append(rows,
			[]string{"report", report.ReportID, "generated_at", report.GeneratedAt.Format(time.RFC3339)},
		)
		for _, m := range impactMetrics(report, fmtFloat) {
			rows = append(rows, []string{"impact", report.ReportID, m.name, m.value})
		}
		for _, f := range report.Behaviors {
			rows = append(rows,
				[]string{"behavior", string(f.Key), "total_count", fmt.Sprintf(intFmt, f.TotalCount)},
				[]string{"behavior", string(f.Key), "avg_per_100km", fmtFloat(f.AvgPer100Km)},
			)
		}
		for i, r := range report.Risks {
			rows = append(rows,
				[]string{"risk", r.VehicleID, "rank", strconv.Itoa(i + 1)},
				[]string{"risk", r.VehicleID, "total_score", fmtFloat(r.TotalScore)},
				[]string{"risk", r.VehicleID, "risk_level", contract.GetPlainLabel(r.RiskLevel)},
			)
		}
		if report.Insight != "" {
			rows = append(rows, []string{"insight", report.ReportID, "text", report.Insight})
		}

		for _, rec := range rows {
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
