// Package algo has the risk scoring and classification engine.
package algo

import (
	"fmt"

	"github.com/huangsam/fleetrisk/schema"
)

// distanceUnitKm is the distance the safety index is normalized to.
const distanceUnitKm = 100.0

// Scorer computes distance-normalized safety indices and classifies drivers.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	catalog    schema.Catalog
	thresholds schema.RiskThresholds
}

// NewScorer creates a Scorer over the given catalog and classification gates.
func NewScorer(catalog schema.Catalog, thresholds schema.RiskThresholds) *Scorer {
	return &Scorer{
		catalog:    catalog.Clone(),
		thresholds: thresholds,
	}
}

// Score computes the safety index of every record and classifies the batch.
// Results are sorted by descending score; ties keep input order.
func (s *Scorer) Score(records []schema.DriverRecord) ([]schema.RiskResult, error) {
	if err := schema.ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("cannot score records: %w", err)
	}

	risks := make([]schema.RiskResult, len(records))
	for i := range records {
		risks[i] = schema.RiskResult{
			VehicleID:  records[i].VehicleID,
			DriverName: records[i].DriverName,
			TotalScore: s.SafetyIndex(&records[i]),
		}
	}
	return classifyRisks(risks, s.thresholds), nil
}

// SafetyIndex returns weighted incidents per 100 km for a single record.
// Records without distance are scored on their raw weighted count.
func (s *Scorer) SafetyIndex(r *schema.DriverRecord) float64 {
	return s.rawScore(r) / distanceNormalizer(r.DistanceKm)
}

// rawScore is the catalog-weighted sum of the record's behavior counts.
func (s *Scorer) rawScore(r *schema.DriverRecord) float64 {
	var raw float64
	for _, b := range s.catalog {
		raw += float64(r.Count(b.Key)) * b.Weight
	}
	return raw
}

// distanceNormalizer converts kilometers into 100 km units, falling back to 1.
func distanceNormalizer(distanceKm float64) float64 {
	if distanceKm > 0 {
		return distanceKm / distanceUnitKm
	}
	return 1
}
