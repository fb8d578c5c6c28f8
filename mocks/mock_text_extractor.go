package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propintel/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, input port.TextExtractionInput) (*port.TextExtractionOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TextExtractionOutput), args.Error(1)
}
