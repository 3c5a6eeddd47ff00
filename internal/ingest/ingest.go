// Package ingest reads spreadsheet exports into normalized driver records.
// Column names are matched against a list of known aliases; anything missing defaults to zero.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/fleetrisk/schema"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// utf8BOM is stripped from the first CSV header, as spreadsheet tools often write one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one raw input row keyed by column header.
type Row map[string]string

// Reader loads driver records from CSV or JSON files.
type Reader struct {
	mask bool
}

// NewReader creates a Reader. When mask is true driver names are masked on ingestion.
func NewReader(mask bool) *Reader {
	return &Reader{mask: mask}
}

// ReadFile parses the file at path based on its extension.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]schema.DriverRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var rows []Row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = ReadCSV(ctx, f)
	case ".json":
		rows, err = ReadJSON(ctx, f)
	default:
		return nil, fmt.Errorf("%w: %s (expected .csv or .json)", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	return MapRows(rows, r.mask), nil
}

// ReadCSV reads a header row followed by data rows. Short rows leave trailing columns empty
// and blank lines are skipped.
func ReadCSV(ctx context.Context, in io.Reader) ([]Row, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := []Row{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(record) {
				continue
			}
			row[h] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadJSON reads an array of flat objects. Numbers, strings and booleans become
// their text form; nulls and nested values are dropped.
func ReadJSON(ctx context.Context, in io.Reader) ([]Row, error) {
	decoder := json.NewDecoder(in)
	decoder.UseNumber()

	var objects []map[string]any
	if err := decoder.Decode(&objects); err != nil {
		if err == io.EOF {
			return []Row{}, nil
		}
		return nil, err
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(Row, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case string:
				row[strings.TrimSpace(k)] = strings.TrimSpace(val)
			case json.Number:
				row[strings.TrimSpace(k)] = val.String()
			case bool:
				row[strings.TrimSpace(k)] = fmt.Sprint(val)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MapRows maps every row into a driver record.
func MapRows(rows []Row, mask bool) []schema.DriverRecord {
	records := make([]schema.DriverRecord, len(rows))
	for i, row := range rows {
		records[i] = MapRow(row, mask)
	}
	return records
}

// MapRow maps one raw row into a driver record using the header aliases.
// The resulting record always passes schema validation.
func MapRow(row Row, mask bool) schema.DriverRecord {
	record := schema.DriverRecord{
		VehicleID:      row.lookup(vehicleAliases),
		DriverName:     row.lookup(driverAliases),
		Date:           row.lookup(dateAliases),
		DistanceKm:     parseFloat(row.lookup(distanceAliases)),
		DrivingTimeMin: parseFloat(row.lookup(drivingTimeAliases)),
		MaxSpeed:       parseFloat(row.lookup(maxSpeedAliases)),
	}
	if record.VehicleID == "" {
		record.VehicleID = UnregisteredVehicle
	}
	if record.DriverName == "" {
		record.DriverName = UnknownDriver
	}
	if mask {
		record.DriverName = MaskName(record.DriverName)
	}

	for _, key := range behaviorOrder {
		record.SetCount(key, parseInt(row.lookup(behaviorAliases[key])))
	}
	return record
}

// lookup returns the first non-empty value among the aliases.
func (r Row) lookup(aliases []string) string {
	for _, a := range aliases {
		if v, ok := r[a]; ok && v != "" {
			return v
		}
	}
	return ""
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
