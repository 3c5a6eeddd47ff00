package ingest

import (
	"context"

	"github.com/huangsam/fleetrisk/internal/contract"
	"github.com/huangsam/fleetrisk/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordReader is a mock implementation of RecordReader for testing.
type MockRecordReader struct {
	mock.Mock
}

var _ contract.RecordReader = &MockRecordReader{} // Compile-time check

// ReadFile implements the RecordReader interface.
func (m *MockRecordReader) ReadFile(ctx context.Context, path string) ([]schema.DriverRecord, error) {
	args := m.Called(ctx, path)
	records, _ := args.Get(0).([]schema.DriverRecord)
	return records, args.Error(1)
}
