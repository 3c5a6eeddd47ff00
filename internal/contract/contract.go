// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/fleetrisk/schema"
)

// RecordReader loads normalized driver records from a file.
// This allows the orchestration layer to be tested without real input files.
type RecordReader interface {
	// ReadFile parses the file at path into driver records. Missing fields default to zero.
	ReadFile(ctx context.Context, path string) ([]schema.DriverRecord, error)
}
