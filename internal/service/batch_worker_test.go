package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"propintel/internal/domain"
	"propintel/internal/service"
	"propintel/mocks"
)

func startWorker(repo *mocks.MockBatchRepository, svc *mocks.MockBatchService, cfg service.BatchQueueConfig) (cancel func(), done chan struct{}) {
	worker := service.NewBatchQueueWorker(repo, svc, cfg)
	ctx, cancelCtx := context.WithCancel(context.Background())
	done = make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()
	return cancelCtx, done
}

func TestBatchQueueWorker_PollsAndDispatches(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	svc := new(mocks.MockBatchService)

	job := domain.BatchJob{
		ID:            uuid.New(),
		Status:        domain.BatchStatusProcessing,
		DocumentCount: 1,
	}

	// First poll returns one job, subsequent polls return empty.
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{job}, nil).Once()
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{}, nil).Maybe()

	dispatched := make(chan struct{})
	svc.On("ProcessQueued", mock.Anything, mock.AnythingOfType("*domain.BatchJob")).
		Run(func(args mock.Arguments) { close(dispatched) }).Once()

	cancel, done := startWorker(repo, svc, service.BatchQueueConfig{
		PollInterval: 20 * time.Millisecond,
		Concurrency:  2,
	})

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("job was never dispatched")
	}
	cancel()
	<-done

	got := svc.Calls[0].Arguments.Get(1).(*domain.BatchJob)
	assert.Equal(t, job.ID, got.ID)
}

func TestBatchQueueWorker_RespectsConcurrencyCap(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	svc := new(mocks.MockBatchService)

	jobs := []domain.BatchJob{
		{ID: uuid.New(), Status: domain.BatchStatusProcessing},
		{ID: uuid.New(), Status: domain.BatchStatusProcessing},
	}
	repo.On("ClaimQueued", mock.Anything, 2).
		Return(jobs, nil).Once()
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{}, nil).Maybe()

	running := make(chan struct{}, 4)
	release := make(chan struct{})
	svc.On("ProcessQueued", mock.Anything, mock.AnythingOfType("*domain.BatchJob")).
		Run(func(args mock.Arguments) {
			running <- struct{}{}
			<-release
		}).Twice()

	cancel, done := startWorker(repo, svc, service.BatchQueueConfig{
		PollInterval: 20 * time.Millisecond,
		Concurrency:  2,
	})

	<-running
	<-running

	// Both slots are busy, so later polls must not ask the repo for more.
	time.Sleep(100 * time.Millisecond)
	for _, call := range repo.Calls {
		if call.Method == "ClaimQueued" {
			assert.LessOrEqual(t, call.Arguments.Get(1).(int), 2)
		}
	}
	repo.AssertNumberOfCalls(t, "ClaimQueued", 1)

	close(release)
	cancel()
	<-done
	svc.AssertNumberOfCalls(t, "ProcessQueued", 2)
}

// Shutdown must wait for in-flight batches instead of abandoning them.
func TestBatchQueueWorker_DrainsInFlightOnShutdown(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	svc := new(mocks.MockBatchService)

	job := domain.BatchJob{ID: uuid.New(), Status: domain.BatchStatusProcessing}
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{job}, nil).Once()
	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{}, nil).Maybe()

	started := make(chan struct{})
	release := make(chan struct{})
	svc.On("ProcessQueued", mock.Anything, mock.AnythingOfType("*domain.BatchJob")).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).Once()

	cancel, done := startWorker(repo, svc, service.BatchQueueConfig{
		PollInterval: 20 * time.Millisecond,
		Concurrency:  1,
	})

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("Start returned while a batch was still in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after the in-flight batch finished")
	}
}

func TestBatchQueueWorker_PromptShutdownWhenIdle(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	svc := new(mocks.MockBatchService)

	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.BatchJob{}, nil).Maybe()

	cancel, done := startWorker(repo, svc, service.BatchQueueConfig{
		PollInterval: 20 * time.Millisecond,
		Concurrency:  5,
	})

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
	svc.AssertNotCalled(t, "ProcessQueued", mock.Anything, mock.Anything)
}

func TestBatchQueueWorker_ClaimErrorKeepsPolling(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	svc := new(mocks.MockBatchService)

	repo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return(nil, errors.New("store offline")).Maybe()

	cancel, done := startWorker(repo, svc, service.BatchQueueConfig{
		PollInterval: 20 * time.Millisecond,
		Concurrency:  1,
	})

	// Let a few failing polls happen, then shut down cleanly.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
	svc.AssertNotCalled(t, "ProcessQueued", mock.Anything, mock.Anything)
}
