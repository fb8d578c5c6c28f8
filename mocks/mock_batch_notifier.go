package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propintel/internal/domain"
)

// MockBatchNotifier is a mock implementation of port.BatchNotifier.
type MockBatchNotifier struct {
	mock.Mock
}

func (m *MockBatchNotifier) NotifyBatchCompleted(ctx context.Context, job *domain.BatchJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
