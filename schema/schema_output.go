package schema

// EnrichedRiskResult adds presentation data to a RiskResult.
type EnrichedRiskResult struct {
	Rank int `json:"rank"`
	RiskResult
}

// EnrichRisks adds a 1-based rank to a list of risk results.
func EnrichRisks(risks []RiskResult) []EnrichedRiskResult {
	output := make([]EnrichedRiskResult, len(risks))
	for i, r := range risks {
		output[i] = EnrichedRiskResult{
			Rank:       i + 1,
			RiskResult: r,
		}
	}
	return output
}

// IndexRecords maps vehicle ids to their records so callers can re-join
// sorted risk results with the raw row. The first record wins on duplicates.
func IndexRecords(records []DriverRecord) map[string]*DriverRecord {
	idx := make(map[string]*DriverRecord, len(records))
	for i := range records {
		if _, ok := idx[records[i].VehicleID]; !ok {
			idx[records[i].VehicleID] = &records[i]
		}
	}
	return idx
}
