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

// PrintBehaviors outputs the behavior frequency rollup of a report.
func PrintBehaviors(report *schema.FleetReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report.Behaviors)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBehaviors(w, report.Behaviors, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteBehaviorsParquet(parquet.ConvertBehaviors(report.ReportID, report.Behaviors), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBehaviorTable(w, report.Behaviors, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// writeBehaviorTable generates and writes the human-readable behavior table.
func writeBehaviorTable(w io.Writer, freq []schema.BehaviorFrequency, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Behavior", "Key", "Total", "Per 100 km"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight}
	})

	var data [][]string
	for _, f := range freq {
		data = append(data, []string{
			f.Label,
			string(f.Key),
			fmt.Sprintf(intFmt, f.TotalCount),
			fmtFloat(f.AvgPer100Km),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVBehaviors writes the behavior rollup in CSV format.
func writeCSVBehaviors(w io.Writer, freq []schema.BehaviorFrequency, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"behavior_key", "label", "total_count", "avg_per_100km"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range freq {
			rec := []string{string(f.Key), f.Label, fmt.Sprintf(intFmt, f.TotalCount), fmtFloat(f.AvgPer100Km)}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
