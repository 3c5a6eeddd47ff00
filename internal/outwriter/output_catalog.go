package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// catalogOutput is the JSON shape of the catalog command.
type catalogOutput struct {
	Behaviors  schema.Catalog        `json:"behaviors"`
	Thresholds schema.RiskThresholds `json:"thresholds"`
}

// PrintCatalog outputs the behavior catalog and classification gates.
func PrintCatalog(catalog schema.Catalog, thresholds schema.RiskThresholds, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, catalogOutput{Behaviors: catalog, Thresholds: thresholds})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCatalog(w, catalog)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for the catalog")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(w, catalog, thresholds)
		}, "Wrote table")
	}
}

func formatCoefficient(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeCatalogTable generates and writes the human-readable catalog.
func writeCatalogTable(w io.Writer, catalog schema.Catalog, thresholds schema.RiskThresholds) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Behavior", "Weight", "Fuel (L)", "Cost"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight}
	})

	var data [][]string
	for _, b := range catalog {
		data = append(data, []string{
			string(b.Key),
			b.Label,
			formatCoefficient(b.Weight),
			formatCoefficient(b.FuelPenalty),
			formatCoefficient(b.CostPerIncident),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Red: rank <= %s%% or score > %s. Yellow: rank <= %s%% or score > %s. Green: everyone else.\n",
		formatCoefficient(thresholds.RedRankPercent), formatCoefficient(thresholds.RedScore),
		formatCoefficient(thresholds.YellowRankPercent), formatCoefficient(thresholds.YellowScore))
	return err
}

// writeCSVCatalog writes the catalog in CSV format.
func writeCSVCatalog(w io.Writer, catalog schema.Catalog) error {
	header := []string{"key", "label", "weight", "fuel_penalty", "cost_per_incident"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range catalog {
			rec := []string{
				string(b.Key),
				b.Label,
				formatCoefficient(b.Weight),
				formatCoefficient(b.FuelPenalty),
				formatCoefficient(b.CostPerIncident),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
