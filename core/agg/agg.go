// Package agg has fleet-wide aggregation over driver records.
package agg

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/fleetrisk/schema"
)

// ErrInvalidFuelPrice is returned when the fuel price is negative or not finite.
var ErrInvalidFuelPrice = errors.New("invalid fuel price")

// per100Km scales a per-kilometer rate to the reporting unit.
const per100Km = 100.0

// Aggregator rolls driver records up into fleet totals.
// Like the scorer it keeps its own copy of the catalog and no other state.
type Aggregator struct {
	catalog     schema.Catalog
	co2PerLiter float64
}

// NewAggregator creates an Aggregator. A non-positive co2PerLiter uses schema.CO2PerLiter.
func NewAggregator(catalog schema.Catalog, co2PerLiter float64) *Aggregator {
	if co2PerLiter <= 0 || math.IsNaN(co2PerLiter) || math.IsInf(co2PerLiter, 0) {
		co2PerLiter = schema.CO2PerLiter
	}
	return &Aggregator{catalog: catalog.Clone(), co2PerLiter: co2PerLiter}
}

// EconomicImpact estimates the fuel, cost and CO2 attributable to tracked behaviors.
// The cost figure is the larger of the fuel-equivalent cost and the per-incident cost.
func (a *Aggregator) EconomicImpact(records []schema.DriverRecord, fuelPrice float64) (schema.EconomicImpact, error) {
	if fuelPrice < 0 || math.IsNaN(fuelPrice) || math.IsInf(fuelPrice, 0) {
		return schema.EconomicImpact{}, fmt.Errorf("%w: %v", ErrInvalidFuelPrice, fuelPrice)
	}
	if err := schema.ValidateRecords(records); err != nil {
		return schema.EconomicImpact{}, fmt.Errorf("cannot aggregate records: %w", err)
	}

	var fuel, incidentCost float64
	for i := range records {
		for _, b := range a.catalog {
			count := float64(records[i].Count(b.Key))
			if b.FuelPenalty > 0 {
				fuel += count * b.FuelPenalty
			}
			if b.CostPerIncident > 0 {
				incidentCost += count * b.CostPerIncident
			}
		}
	}

	return schema.EconomicImpact{
		FuelSavedLiters: fuel,
		CostSavedKrw:    math.Max(fuel*fuelPrice, incidentCost),
		CO2ReducedKg:    fuel * a.co2PerLiter,
	}, nil
}

// BehaviorFrequency returns the fleet total and per-100 km rate for each catalog behavior,
// in catalog order. Rates are 0 when the fleet has no recorded distance.
func (a *Aggregator) BehaviorFrequency(records []schema.DriverRecord) ([]schema.BehaviorFrequency, error) {
	if err := schema.ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("cannot aggregate records: %w", err)
	}

	var totalDistance float64
	for i := range records {
		totalDistance += records[i].DistanceKm
	}

	out := make([]schema.BehaviorFrequency, len(a.catalog))
	for j, b := range a.catalog {
		total := 0
		for i := range records {
			total += records[i].Count(b.Key)
		}
		freq := schema.BehaviorFrequency{Key: b.Key, Label: b.Label, TotalCount: total}
		if totalDistance > 0 {
			freq.AvgPer100Km = float64(total) / totalDistance * per100Km
		}
		out[j] = freq
	}
	return out, nil
}

// RiskDistribution counts results per risk level.
func RiskDistribution(results []schema.RiskResult) schema.RiskDistribution {
	var dist schema.RiskDistribution
	for _, r := range results {
		switch r.RiskLevel {
		case schema.RedLevel:
			dist.Red++
		case schema.YellowLevel:
			dist.Yellow++
		case schema.GreenLevel:
			dist.Green++
		}
	}
	return dist
}

// TopBehaviors returns the n most frequent behaviors with a non-zero count.
// Ties keep the input order. The input slice is not modified.
func TopBehaviors(freq []schema.BehaviorFrequency, n int) []schema.BehaviorFrequency {
	out := make([]schema.BehaviorFrequency, 0, len(freq))
	for _, f := range freq {
		if f.TotalCount > 0 {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCount > out[j].TotalCount
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
