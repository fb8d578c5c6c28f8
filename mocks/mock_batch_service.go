package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"propintel/internal/domain"
	"propintel/internal/pipeline"
	"propintel/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Submit(ctx context.Context, docs []domain.RawDocument) (*domain.BatchJob, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchJob), args.Error(1)
}

func (m *MockBatchService) SubmitFromStorage(ctx context.Context, refs []service.DocumentRef) (*domain.BatchJob, error) {
	args := m.Called(ctx, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchJob), args.Error(1)
}

func (m *MockBatchService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchJob), args.Error(1)
}

func (m *MockBatchService) List(ctx context.Context) ([]domain.BatchJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchJob), args.Error(1)
}

func (m *MockBatchService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchService) ArchiveURLs(ctx context.Context, job *domain.BatchJob) ([]string, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBatchService) ProcessAndFuse(ctx context.Context, docs []domain.RawDocument, progress pipeline.ProgressFunc) (*service.BatchOutcome, error) {
	args := m.Called(ctx, docs, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchOutcome), args.Error(1)
}

func (m *MockBatchService) Extract(ctx context.Context, doc domain.RawDocument) (*service.BatchOutcome, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchOutcome), args.Error(1)
}

func (m *MockBatchService) ProcessQueued(ctx context.Context, job *domain.BatchJob) {
	m.Called(ctx, job)
}
