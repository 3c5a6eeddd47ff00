package algo

import (
	"math"
	"testing"

	"github.com/huangsam/fleetrisk/schema"
)

// FuzzSafetyIndex fuzzes SafetyIndex and Classify with random records.
func FuzzSafetyIndex(f *testing.F) {
	seeds := []schema.DriverRecord{
		{DistanceKm: 1200, SpeedingCount: 350, SuddenAccelCount: 480, SuddenDecelCount: 210, SuddenStartCount: 150, TrafficLawViolationCount: 45},
		{DistanceKm: 0, DUISuspicionCount: 1}, // edge case
		{},
	}
	for _, s := range seeds {
		f.Add(s.DistanceKm, s.SpeedingCount, s.SuddenAccelCount, s.SuddenStartCount, s.DUISuspicionCount, s.LongSpeedingMin, 50.0)
	}

	scorer := NewScorer(schema.DefaultCatalog(), schema.DefaultRiskThresholds())
	thresholds := schema.DefaultRiskThresholds()

	f.Fuzz(func(t *testing.T, distance float64, speeding, accel, start, dui, longSpeeding int, rankPercent float64) {
		r := schema.DriverRecord{
			DistanceKm:        distance,
			SpeedingCount:     speeding,
			SuddenAccelCount:  accel,
			SuddenStartCount:  start,
			DUISuspicionCount: dui,
			LongSpeedingMin:   longSpeeding,
		}
		if r.Validate() != nil {
			return
		}

		score := scorer.SafetyIndex(&r)
		if score < 0 || math.IsNaN(score) {
			t.Fatalf("SafetyIndex(%+v) = %v, want a non-negative number", r, score)
		}

		if rankPercent < 0 || rankPercent > 100 || math.IsNaN(rankPercent) {
			return
		}
		level := Classify(rankPercent, score, thresholds)
		if level != schema.RedLevel && level != schema.YellowLevel && level != schema.GreenLevel {
			t.Fatalf("Classify returned unknown level %q", level)
		}
		if score > thresholds.RedScore && level != schema.RedLevel {
			t.Fatalf("score %v above the red gate classified as %s", score, level)
		}
	})
}
