package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/fleetrisk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileKoreanCSV(t *testing.T) {
	content := "\xEF\xBB\xBF차량번호,운전자명,운행일자,운행거리(km),과속횟수,급가속횟수,법규위반횟수\n" +
		"TS-01,김종환,2026-01-05,1200,350,480,45\n" +
		"\n" +
		"TS-02,이산,2026-01-05,,12,,\n"
	path := writeFile(t, "fleet.csv", content)

	records, err := NewReader(true).ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "TS-01", first.VehicleID)
	assert.Equal(t, "김o환", first.DriverName)
	assert.Equal(t, "2026-01-05", first.Date)
	assert.Equal(t, 1200.0, first.DistanceKm)
	assert.Equal(t, 350, first.SpeedingCount)
	assert.Equal(t, 480, first.SuddenAccelCount)
	assert.Equal(t, 45, first.TrafficLawViolationCount)
	assert.Zero(t, first.FatigueRiskCount)

	second := records[1]
	assert.Equal(t, "이o", second.DriverName)
	assert.Zero(t, second.DistanceKm)
	assert.Equal(t, 12, second.SpeedingCount)
	assert.Zero(t, second.SuddenAccelCount)
}

func TestReadFileEnglishCSVWithoutMask(t *testing.T) {
	content := "Plate,DriverName,Distance,Speeding,DUI,Fatigue\nAB-1,Jane Doe,250.5,3,1,2\n"
	path := writeFile(t, "fleet.csv", content)

	records, err := NewReader(false).ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AB-1", records[0].VehicleID)
	assert.Equal(t, "Jane Doe", records[0].DriverName)
	assert.Equal(t, 250.5, records[0].DistanceKm)
	assert.Equal(t, 1, records[0].DUISuspicionCount)
	assert.Equal(t, 2, records[0].FatigueRiskCount)
}

func TestReadFileJSON(t *testing.T) {
	content := `[
		{"차량번호": "TS-9", "운전자명": "홍길동", "운행거리(km)": 300, "과속횟수": "7", "급정지횟수": 2.9, "extra": {"nested": true}},
		{"CarNo": "X", "km": "0", "GearShift": 4, "Name": null}
	]`
	path := writeFile(t, "fleet.json", content)

	records, err := NewReader(true).ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "TS-9", records[0].VehicleID)
	assert.Equal(t, "홍o동", records[0].DriverName)
	assert.Equal(t, 300.0, records[0].DistanceKm)
	assert.Equal(t, 7, records[0].SpeedingCount)
	assert.Equal(t, 2, records[0].SuddenStopCount)

	assert.Equal(t, "X", records[1].VehicleID)
	assert.Equal(t, MaskedPlaceholder, records[1].DriverName)
	assert.Equal(t, 4, records[1].GearShiftStoppedCount)
}

func TestReadFileEmptyInputs(t *testing.T) {
	for name, content := range map[string]string{"empty.csv": "", "header.csv": "차량번호,과속횟수\n", "empty.json": "[]"} {
		t.Run(name, func(t *testing.T) {
			records, err := NewReader(true).ReadFile(context.Background(), writeFile(t, name, content))
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	r := NewReader(true)

	_, err := r.ReadFile(context.Background(), writeFile(t, "fleet.xlsx", "binary"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = r.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = r.ReadFile(context.Background(), writeFile(t, "bad.json", `{"not": "an array"}`))
	assert.Error(t, err)
}

func TestReadCSVCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader("차량번호\nA\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapRowDefaults(t *testing.T) {
	record := MapRow(Row{}, false)
	assert.Equal(t, UnregisteredVehicle, record.VehicleID)
	assert.Equal(t, UnknownDriver, record.DriverName)
	assert.NoError(t, record.Validate())
	for _, b := range schema.DefaultCatalog() {
		assert.Zero(t, record.Count(b.Key))
	}

	masked := MapRow(Row{}, true)
	assert.Equal(t, MaskedPlaceholder, masked.DriverName)
}

func TestMapRowAliasPriority(t *testing.T) {
	row := Row{"차량": "second", "번호": "third", "차량번호": "", "과속": "5", "Speeding": "9"}
	record := MapRow(row, false)
	assert.Equal(t, "second", record.VehicleID)
	assert.Equal(t, 5, record.SpeedingCount)
}

func TestMapRowMalformedValuesDegrade(t *testing.T) {
	row := Row{"운행거리(km)": "-50", "과속횟수": "abc", "급가속횟수": "-3", "급감속횟수": "12.7", "최고속도": "98km/h"}
	record := MapRow(row, false)
	assert.NoError(t, record.Validate())
	assert.Zero(t, record.DistanceKm)
	assert.Zero(t, record.SpeedingCount)
	assert.Zero(t, record.SuddenAccelCount)
	assert.Equal(t, 12, record.SuddenDecelCount)
	assert.Equal(t, 98.0, record.MaxSpeed)
}

func TestEveryBehaviorHasAliases(t *testing.T) {
	assert.Len(t, behaviorOrder, len(schema.DefaultCatalog()))
	for _, b := range schema.DefaultCatalog() {
		assert.NotEmpty(t, behaviorAliases[b.Key], "behavior %s has no aliases", b.Key)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1200", 1200},
		{" 12.5", 12.5},
		{"1200km", 1200},
		{".5", 0.5},
		{"1e3", 1000},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"1e999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseFloat(tt.input))
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"350", 350},
		{"12.7", 12},
		{"+8", 8},
		{"7회", 7},
		{"", 0},
		{"x1", 0},
		{"-1", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseInt(tt.input))
		})
	}
}

func TestMaskName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"김종환", "김o환"},
		{"홍길동", "홍o동"},
		{"이산", "이o"},
		{"남궁민수", "남oo수"},
		{"김", "김"},
		{"", MaskedPlaceholder},
		{"Unknown", MaskedPlaceholder},
		{"undefined", MaskedPlaceholder},
		{"null", MaskedPlaceholder},
		{" Alice ", "Aoooe"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskName(tt.input))
		})
	}
}

func TestDemoRecords(t *testing.T) {
	records := DemoRecords(true)
	require.Len(t, records, 3)
	require.NoError(t, schema.ValidateRecords(records))

	assert.Equal(t, "TS-2026-01", records[0].VehicleID)
	assert.Equal(t, "김o수", records[0].DriverName)
	assert.Equal(t, 1200.0, records[0].DistanceKm)
	assert.Equal(t, 1500.0, records[0].DrivingTimeMin)
	assert.Equal(t, 350, records[0].SpeedingCount)
	assert.Equal(t, 480, records[0].SuddenAccelCount)
	assert.Equal(t, 210, records[0].SuddenDecelCount)
	assert.Equal(t, 150, records[0].SuddenStartCount)
	assert.Equal(t, 45, records[0].TrafficLawViolationCount)

	assert.Equal(t, "TS-2026-03", records[2].VehicleID)
	assert.Equal(t, 800.0, records[2].DistanceKm)

	unmasked := DemoRecords(false)
	assert.Equal(t, "박영희", unmasked[1].DriverName)
}
