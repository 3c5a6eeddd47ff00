package algo

import (
	"sort"

	"github.com/huangsam/fleetrisk/schema"
)

// classifyRisks sorts risks by descending score and assigns rank percent and level.
// The slice is sorted in place and returned.
func classifyRisks(risks []schema.RiskResult, thresholds schema.RiskThresholds) []schema.RiskResult {
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].TotalScore > risks[j].TotalScore
	})

	n := len(risks)
	for i := range risks {
		risks[i].RankPercent = RankPercent(i, n)
		risks[i].RiskLevel = Classify(risks[i].RankPercent, risks[i].TotalScore, thresholds)
	}
	return risks
}

// RankPercent returns the percentile position of index i in a batch of n,
// where 0 is the worst driver and 100 the best. A single driver ranks at 0.
func RankPercent(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1) * 100
}

// Classify applies the dual rank/score gate. Either condition promotes severity.
func Classify(rankPercent, score float64, thresholds schema.RiskThresholds) schema.RiskLevel {
	switch {
	case rankPercent <= thresholds.RedRankPercent || score > thresholds.RedScore:
		return schema.RedLevel
	case rankPercent <= thresholds.YellowRankPercent || score > thresholds.YellowScore:
		return schema.YellowLevel
	default:
		return schema.GreenLevel
	}
}

// TopRisks returns the first limit results. Results must already be ranked.
func TopRisks(risks []schema.RiskResult, limit int) []schema.RiskResult {
	if limit > 0 && len(risks) > limit {
		return risks[:limit]
	}
	return risks
}
