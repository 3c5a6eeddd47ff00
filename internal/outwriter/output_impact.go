package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/internal/parquet"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// impactOutput is the JSON shape of the impact command.
type impactOutput struct {
	ReportID     string                  `json:"reportId"`
	RecordCount  int                     `json:"recordCount"`
	FuelPrice    float64                 `json:"fuelPrice"`
	Impact       schema.EconomicImpact   `json:"impact"`
	Distribution schema.RiskDistribution `json:"distribution"`
}

// PrintImpact outputs the economic impact and risk distribution of a report.
func PrintImpact(report *schema.FleetReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, impactOutput{
				ReportID:     report.ReportID,
				RecordCount:  report.RecordCount,
				FuelPrice:    report.FuelPrice,
				Impact:       report.Impact,
				Distribution: report.Distribution,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
				return writeMetricRows(cw, impactMetrics(report, fmtFloat))
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteImpactParquet([]parquet.ImpactRow{parquet.ConvertImpact(report)}, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeImpactTable(w, report, fmtFloat)
		}, "Wrote table")
	}
}

// metric is one named value in a two-column summary.
type metric struct {
	name  string
	value string
}

// impactMetrics lists the impact and distribution figures in display order.
func impactMetrics(report *schema.FleetReport, fmtFloat func(float64) string) []metric {
	return []metric{
		{"vehicles", fmt.Sprintf("%d", report.RecordCount)},
		{"fuel_price", fmtFloat(report.FuelPrice)},
		{"fuel_saved_liters", fmtFloat(report.Impact.FuelSavedLiters)},
		{"cost_saved_krw", fmtFloat(report.Impact.CostSavedKrw)},
		{"co2_reduced_kg", fmtFloat(report.Impact.CO2ReducedKg)},
		{"red", fmt.Sprintf("%d", report.Distribution.Red)},
		{"yellow", fmt.Sprintf("%d", report.Distribution.Yellow)},
		{"green", fmt.Sprintf("%d", report.Distribution.Green)},
	}
}

func writeMetricRows(cw *csv.Writer, metrics []metric) error {
	for _, m := range metrics {
		if err := cw.Write([]string{m.name, m.value}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

// writeImpactTable generates and writes the human-readable impact summary.
func writeImpactTable(w io.Writer, report *schema.FleetReport, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})

	total := report.Distribution.Total()
	data := [][]string{
		{"Vehicles", fmt.Sprintf("%d", report.RecordCount)},
		{"Fuel price (per L)", formatMoney(report.FuelPrice)},
		{"Fuel saved (L)", fmtFloat(report.Impact.FuelSavedLiters)},
		{"Cost saved (KRW)", formatMoney(report.Impact.CostSavedKrw)},
		{"CO2 reduced (kg)", fmtFloat(report.Impact.CO2ReducedKg)},
		{"Red drivers", formatShare(report.Distribution.Red, total)},
		{"Yellow drivers", formatShare(report.Distribution.Yellow, total)},
		{"Green drivers", formatShare(report.Distribution.Green, total)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// formatShare renders a count with its share of total, e.g. "2 (40%)".
func formatShare(count, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d", count)
	}
	return fmt.Sprintf("%d (%.0f%%)", count, float64(count)/float64(total)*100)
}
