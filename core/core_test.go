package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/internal/ingest"
	"github.com/huangsam/fleetrisk/internal/insight"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(_ context.Context, _ insight.Summary) (string, error) {
	return s.text, s.err
}

func testConfig() *contract.Config {
	return &contract.Config{
		ResultLimit: contract.DefaultResultLimit,
		Precision:   contract.DefaultPrecision,
		Output:      schema.JSONOut,
		FuelPrice:   schema.DefaultFuelPrice,
		CO2PerLiter: schema.CO2PerLiter,
		Catalog:     schema.DefaultCatalog(),
		Thresholds:  schema.DefaultRiskThresholds(),
	}
}

func readJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestLoadRecordsDemo(t *testing.T) {
	cfg := testConfig()
	cfg.Demo = true
	cfg.Mask = true

	records, err := LoadRecords(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "TS-2026-01", records[0].VehicleID)
	assert.Equal(t, "김o수", records[0].DriverName)
}

func TestLoadRecordsNoInput(t *testing.T) {
	_, err := LoadRecords(context.Background(), testConfig(), nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestLoadRecordsUsesReader(t *testing.T) {
	ctx := context.Background()
	want := []schema.DriverRecord{{VehicleID: "A", DistanceKm: 100, SpeedingCount: 2}}

	reader := &ingest.MockRecordReader{}
	reader.On("ReadFile", mock.Anything, "fleet.csv").Return(want, nil)

	cfg := testConfig()
	cfg.InputPath = "fleet.csv"
	records, err := LoadRecords(ctx, cfg, reader)
	require.NoError(t, err)
	assert.Equal(t, want, records)
	reader.AssertExpectations(t)
}

func TestLoadRecordsReaderError(t *testing.T) {
	reader := &ingest.MockRecordReader{}
	reader.On("ReadFile", mock.Anything, "broken.xlsx").Return(nil, ingest.ErrUnsupportedFormat)

	cfg := testConfig()
	cfg.InputPath = "broken.xlsx"
	_, err := LoadRecords(context.Background(), cfg, reader)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
	reader.AssertExpectations(t)
}

func TestLoadRecordsDefaultReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.csv")
	require.NoError(t, os.WriteFile(path, []byte("차량번호,운전자명,운행거리(km),과속횟수\nV-1,홍길동,250,4\n"), 0o644))

	cfg := testConfig()
	cfg.InputPath = path
	records, err := LoadRecords(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "홍길동", records[0].DriverName)
	assert.Equal(t, 4, records[0].SpeedingCount)
}

func TestBuildReportDemo(t *testing.T) {
	records := ingest.DemoRecords(false)
	report, err := BuildReport(context.Background(), testConfig(), records, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(report.ReportID)
	assert.NoError(t, err)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 3, report.RecordCount)
	assert.Equal(t, schema.DefaultFuelPrice, report.FuelPrice)

	require.Len(t, report.Risks, 3)
	assert.Equal(t, "TS-2026-01", report.Risks[0].VehicleID)
	assert.InDelta(t, 1.18583, report.Risks[0].TotalScore, 1e-4)
	assert.Equal(t, schema.RedLevel, report.Risks[0].RiskLevel)
	assert.Equal(t, 3, report.Distribution.Total())

	assert.Len(t, report.Behaviors, len(schema.DefaultCatalog()))
	assert.Greater(t, report.Impact.FuelSavedLiters, 0.0)
	assert.Empty(t, report.Insight)
}

func TestBuildReportDoesNotMutateRecords(t *testing.T) {
	records := ingest.DemoRecords(false)
	snapshot := make([]schema.DriverRecord, len(records))
	copy(snapshot, records)

	_, err := BuildReport(context.Background(), testConfig(), records, nil)
	require.NoError(t, err)
	assert.Equal(t, snapshot, records)
}

func TestBuildReportEmpty(t *testing.T) {
	report, err := BuildReport(context.Background(), testConfig(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RecordCount)
	assert.Empty(t, report.Risks)
	assert.Equal(t, schema.RiskDistribution{}, report.Distribution)
	assert.Equal(t, schema.EconomicImpact{}, report.Impact)
}

func TestBuildReportInvalidRecord(t *testing.T) {
	records := []schema.DriverRecord{{VehicleID: "A", DistanceKm: -5}}
	_, err := BuildReport(context.Background(), testConfig(), records, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidRecord)
}

func TestBuildReportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildReport(ctx, testConfig(), ingest.DemoRecords(false), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildReportFallsBackToDefaults(t *testing.T) {
	cfg := &contract.Config{FuelPrice: schema.DefaultFuelPrice}
	report, err := BuildReport(context.Background(), cfg, ingest.DemoRecords(false), nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.18583, report.Risks[0].TotalScore, 1e-4)
	assert.Equal(t, schema.RedLevel, report.Risks[0].RiskLevel)
}

func TestBuildReportInsight(t *testing.T) {
	tests := []struct {
		name string
		gen  insight.Generator
		want string
	}{
		{name: "generated", gen: stubGenerator{text: "Coach TS-2026-01 first."}, want: "Coach TS-2026-01 first."},
		{name: "generator error", gen: stubGenerator{err: errors.New("upstream down")}, want: insight.FallbackInsight},
		{name: "no generator", gen: nil, want: insight.FallbackInsight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Insight.Enabled = true
			report, err := BuildReport(context.Background(), cfg, ingest.DemoRecords(false), tt.gen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Insight)
		})
	}
}

func TestNewGenerator(t *testing.T) {
	cfg := testConfig()
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.Nil(t, gen)

	cfg.Insight = contract.InsightConfig{Enabled: true, BaseURL: "http://localhost:8080"}
	gen, err = NewGenerator(cfg)
	require.NoError(t, err)
	assert.NotNil(t, gen)

	cfg.Insight.BaseURL = ""
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}

func TestExecuteRisksJSON(t *testing.T) {
	cfg := testConfig()
	cfg.Demo = true
	cfg.ResultLimit = 2
	cfg.OutputFile = filepath.Join(t.TempDir(), "risks.json")

	require.NoError(t, ExecuteRisks(context.Background(), cfg, nil))

	var got []map[string]any
	readJSONFile(t, cfg.OutputFile, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "TS-2026-01", got[0]["vehicleId"])
	assert.EqualValues(t, 1, got[0]["rank"])
}

func TestExecuteImpactJSON(t *testing.T) {
	cfg := testConfig()
	cfg.Demo = true
	cfg.OutputFile = filepath.Join(t.TempDir(), "impact.json")

	require.NoError(t, ExecuteImpact(context.Background(), cfg, nil))

	var got map[string]any
	readJSONFile(t, cfg.OutputFile, &got)
	assert.EqualValues(t, 3, got["recordCount"])
	assert.Contains(t, got, "impact")
	assert.Contains(t, got, "distribution")
}

func TestExecuteBehaviorsCSV(t *testing.T) {
	cfg := testConfig()
	cfg.Demo = true
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "behaviors.csv")

	require.NoError(t, ExecuteBehaviors(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), string(schema.SpeedingKey))
}

func TestExecuteCatalogJSON(t *testing.T) {
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "catalog.json")

	require.NoError(t, ExecuteCatalog(context.Background(), cfg, nil))

	var got struct {
		Behaviors  schema.Catalog        `json:"behaviors"`
		Thresholds schema.RiskThresholds `json:"thresholds"`
	}
	readJSONFile(t, cfg.OutputFile, &got)
	assert.Equal(t, schema.DefaultCatalog(), got.Behaviors)
	assert.Equal(t, schema.DefaultRiskThresholds(), got.Thresholds)
}

func TestExecuteReportParquet(t *testing.T) {
	cfg := testConfig()
	cfg.Demo = true
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "fleet")

	require.NoError(t, ExecuteReport(context.Background(), cfg, nil))

	for _, suffix := range []string{".risks.parquet", ".behaviors.parquet", ".impact.parquet"} {
		assert.FileExists(t, cfg.OutputFile+suffix)
	}
}

func TestExecuteNoInput(t *testing.T) {
	executors := map[string]ExecutorFunc{
		"risks":     ExecuteRisks,
		"impact":    ExecuteImpact,
		"behaviors": ExecuteBehaviors,
		"report":    ExecuteReport,
	}
	for name, exec := range executors {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, exec(context.Background(), testConfig(), nil), ErrNoInput)
		})
	}
}
