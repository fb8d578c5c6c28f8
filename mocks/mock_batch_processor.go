package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propintel/internal/domain"
	"propintel/internal/pipeline"
)

// MockBatchProcessor is a mock implementation of service.BatchProcessor.
type MockBatchProcessor struct {
	mock.Mock
}

func (m *MockBatchProcessor) ProcessBatch(ctx context.Context, docs []domain.RawDocument, progress pipeline.ProgressFunc) ([]domain.ScoredExtraction, error) {
	args := m.Called(ctx, docs, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredExtraction), args.Error(1)
}
