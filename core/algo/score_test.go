package algo

import (
	"math/rand"
	"testing"

	"github.com/huangsam/fleetrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultScorer() *Scorer {
	return NewScorer(schema.DefaultCatalog(), schema.DefaultRiskThresholds())
}

// TestScoreSingleHighRiskDriver checks the worked example of one heavy offender.
func TestScoreSingleHighRiskDriver(t *testing.T) {
	record := schema.DriverRecord{
		VehicleID:                "TS-2026-01",
		DriverName:               "Kim",
		DistanceKm:               1200,
		SpeedingCount:            350,
		SuddenAccelCount:         480,
		SuddenDecelCount:         210,
		SuddenStartCount:         150,
		TrafficLawViolationCount: 45,
	}
	s := newDefaultScorer()

	assert.InDelta(t, 14.23, s.rawScore(&record), 1e-9)
	assert.Equal(t, 12.0, distanceNormalizer(record.DistanceKm))

	risks, err := s.Score([]schema.DriverRecord{record})
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.InDelta(t, 1.18583, risks[0].TotalScore, 1e-5)
	assert.Equal(t, 0.0, risks[0].RankPercent)
	assert.Equal(t, schema.RedLevel, risks[0].RiskLevel)
	assert.Equal(t, "TS-2026-01", risks[0].VehicleID)
	assert.Equal(t, "Kim", risks[0].DriverName)
}

// TestScoreThreeDriverBatch checks the rank gate on a batch of three distinct scores.
func TestScoreThreeDriverBatch(t *testing.T) {
	catalog := schema.Catalog{{Key: schema.SpeedingKey, Weight: 0.001}}
	s := NewScorer(catalog, schema.DefaultRiskThresholds())

	records := []schema.DriverRecord{
		{VehicleID: "low", SpeedingCount: 10},
		{VehicleID: "very-low", SpeedingCount: 3},
		{VehicleID: "high", SpeedingCount: 1190},
	}
	risks, err := s.Score(records)
	require.NoError(t, err)
	require.Len(t, risks, 3)

	assert.Equal(t, "high", risks[0].VehicleID)
	assert.InDelta(t, 1.19, risks[0].TotalScore, 1e-9)
	assert.Equal(t, 0.0, risks[0].RankPercent)
	assert.Equal(t, schema.RedLevel, risks[0].RiskLevel)

	assert.Equal(t, "low", risks[1].VehicleID)
	assert.Equal(t, 50.0, risks[1].RankPercent)
	assert.Equal(t, schema.YellowLevel, risks[1].RiskLevel)

	assert.Equal(t, "very-low", risks[2].VehicleID)
	assert.Equal(t, 100.0, risks[2].RankPercent)
	assert.Equal(t, schema.GreenLevel, risks[2].RiskLevel)
}

// TestScoreAllZeroBatch checks that a spotless fleet still spreads by rank.
func TestScoreAllZeroBatch(t *testing.T) {
	s := newDefaultScorer()

	t.Run("three drivers", func(t *testing.T) {
		records := []schema.DriverRecord{{VehicleID: "a"}, {VehicleID: "b", DistanceKm: 50}, {VehicleID: "c"}}
		risks, err := s.Score(records)
		require.NoError(t, err)
		require.Len(t, risks, 3)
		for _, r := range risks {
			assert.Zero(t, r.TotalScore)
		}
		assert.Equal(t, schema.RedLevel, risks[0].RiskLevel)
		assert.Equal(t, schema.YellowLevel, risks[1].RiskLevel)
		assert.Equal(t, schema.GreenLevel, risks[2].RiskLevel)
	})

	t.Run("two drivers", func(t *testing.T) {
		risks, err := s.Score([]schema.DriverRecord{{VehicleID: "a"}, {VehicleID: "b"}})
		require.NoError(t, err)
		require.Len(t, risks, 2)
		assert.Equal(t, schema.RedLevel, risks[0].RiskLevel)
		assert.Equal(t, schema.GreenLevel, risks[1].RiskLevel)
	})
}

func TestScoreEmptyBatch(t *testing.T) {
	s := newDefaultScorer()

	risks, err := s.Score(nil)
	require.NoError(t, err)
	assert.NotNil(t, risks)
	assert.Empty(t, risks)

	risks, err = s.Score([]schema.DriverRecord{})
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestScoreRejectsInvalidRecords(t *testing.T) {
	s := newDefaultScorer()
	_, err := s.Score([]schema.DriverRecord{{VehicleID: "ok"}, {VehicleID: "bad", DistanceKm: -5}})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "record 1")
}

// TestScoreZeroDistanceFallback checks that zero distance scores the raw weighted count.
func TestScoreZeroDistanceFallback(t *testing.T) {
	s := newDefaultScorer()
	r := rand.New(rand.NewSource(7))

	for range 50 {
		record := randomRecord(r)
		record.DistanceKm = 0
		assert.InDelta(t, s.rawScore(&record), s.SafetyIndex(&record), 1e-12)
	}
}

// TestSafetyIndexMonotonic checks that adding an incident never lowers the score.
func TestSafetyIndexMonotonic(t *testing.T) {
	s := newDefaultScorer()
	r := rand.New(rand.NewSource(11))

	for range 25 {
		record := randomRecord(r)
		base := s.SafetyIndex(&record)
		for _, b := range schema.DefaultCatalog() {
			bumped := record
			bumped.SetCount(b.Key, record.Count(b.Key)+1+r.Intn(10))
			assert.GreaterOrEqual(t, s.SafetyIndex(&bumped), base, "behavior %s", b.Key)
		}
	}
}

// TestClassificationConsistency checks every level against the gate that produced it.
func TestClassificationConsistency(t *testing.T) {
	s := newDefaultScorer()
	th := schema.DefaultRiskThresholds()
	r := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 3, 7, 40, 200} {
		records := make([]schema.DriverRecord, n)
		for i := range records {
			records[i] = randomRecord(r)
		}
		risks, err := s.Score(records)
		require.NoError(t, err)
		require.Len(t, risks, n)

		for i, risk := range risks {
			if i > 0 {
				assert.GreaterOrEqual(t, risks[i-1].TotalScore, risk.TotalScore)
			}
			isRed := risk.RankPercent <= th.RedRankPercent || risk.TotalScore > th.RedScore
			isYellow := risk.RankPercent <= th.YellowRankPercent || risk.TotalScore > th.YellowScore
			switch risk.RiskLevel {
			case schema.RedLevel:
				assert.True(t, isRed)
			case schema.YellowLevel:
				assert.False(t, isRed)
				assert.True(t, isYellow)
			case schema.GreenLevel:
				assert.False(t, isRed)
				assert.False(t, isYellow)
			default:
				t.Fatalf("unexpected level %q", risk.RiskLevel)
			}
		}
	}
}

func TestScoreTiesKeepInputOrder(t *testing.T) {
	s := newDefaultScorer()
	records := []schema.DriverRecord{
		{VehicleID: "first", SpeedingCount: 10},
		{VehicleID: "second", SpeedingCount: 10},
		{VehicleID: "top", SpeedingCount: 100},
		{VehicleID: "third", SpeedingCount: 10},
	}
	risks, err := s.Score(records)
	require.NoError(t, err)

	ids := make([]string, len(risks))
	for i, r := range risks {
		ids[i] = r.VehicleID
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, ids)
}

func TestScoreDoesNotMutateRecords(t *testing.T) {
	s := newDefaultScorer()
	records := []schema.DriverRecord{{VehicleID: "b", SpeedingCount: 1}, {VehicleID: "a", SpeedingCount: 9}}
	snapshot := append([]schema.DriverRecord(nil), records...)

	_, err := s.Score(records)
	require.NoError(t, err)
	assert.Equal(t, snapshot, records)
}

func TestScorerUsesInjectedCatalog(t *testing.T) {
	catalog := schema.Catalog{{Key: schema.DUISuspicionKey, Weight: 1}}
	s := NewScorer(catalog, schema.DefaultRiskThresholds())
	catalog[0].Weight = 100 // the scorer keeps its own copy

	record := schema.DriverRecord{DUISuspicionCount: 2, SpeedingCount: 500}
	assert.Equal(t, 2.0, s.SafetyIndex(&record))
}

func TestCustomThresholds(t *testing.T) {
	th := schema.RiskThresholds{RedRankPercent: 0, RedScore: 10, YellowRankPercent: 0, YellowScore: 5}
	assert.Equal(t, schema.RedLevel, Classify(0, 0, th))
	assert.Equal(t, schema.RedLevel, Classify(100, 11, th))
	assert.Equal(t, schema.YellowLevel, Classify(100, 6, th))
	assert.Equal(t, schema.GreenLevel, Classify(100, 5, th))
}

func TestRankPercent(t *testing.T) {
	assert.Equal(t, 0.0, RankPercent(0, 0))
	assert.Equal(t, 0.0, RankPercent(0, 1))
	assert.Equal(t, 0.0, RankPercent(0, 5))
	assert.Equal(t, 25.0, RankPercent(1, 5))
	assert.Equal(t, 100.0, RankPercent(4, 5))
}

func TestTopRisks(t *testing.T) {
	risks := []schema.RiskResult{{VehicleID: "a"}, {VehicleID: "b"}, {VehicleID: "c"}}
	assert.Len(t, TopRisks(risks, 2), 2)
	assert.Len(t, TopRisks(risks, 10), 3)
	assert.Len(t, TopRisks(risks, 0), 3)
}

// randomRecord builds a plausible record with small counts and optional distance.
func randomRecord(r *rand.Rand) schema.DriverRecord {
	record := schema.DriverRecord{VehicleID: "v"}
	if r.Intn(4) > 0 {
		record.DistanceKm = float64(r.Intn(3000))
	}
	for _, b := range schema.DefaultCatalog() {
		if r.Intn(3) == 0 {
			record.SetCount(b.Key, r.Intn(50))
		}
	}
	return record
}

// BenchmarkScore benchmarks scoring a realistic fleet.
func BenchmarkScore(b *testing.B) {
	s := newDefaultScorer()
	r := rand.New(rand.NewSource(1))
	records := make([]schema.DriverRecord, 2000)
	for i := range records {
		records[i] = randomRecord(r)
	}

	for b.Loop() {
		_, _ = s.Score(records)
	}
}
