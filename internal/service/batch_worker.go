package service

import (
	"context"
	"log"
	"sync"
	"time"

	"propintel/internal/port"
)

// BatchQueueConfig holds settings for the batch queue worker.
type BatchQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	JobTimeout   time.Duration
}

// BatchQueueWorker polls for queued batch jobs and dispatches them for
// processing. Jobs within a batch run strictly sequentially; concurrency
// only applies across batches.
type BatchQueueWorker struct {
	repo    port.BatchRepository
	service BatchService
	cfg     BatchQueueConfig
	wg      sync.WaitGroup
}

// NewBatchQueueWorker creates a new BatchQueueWorker.
func NewBatchQueueWorker(repo port.BatchRepository, service BatchService, cfg BatchQueueConfig) *BatchQueueWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	return &BatchQueueWorker{
		repo:    repo,
		service: service,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight batch goroutines have finished.
func (w *BatchQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("batchQueueWorker: started (poll=%s, concurrency=%d, jobTimeout=%s)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.JobTimeout)

	for {
		select {
		case <-ctx.Done():
			log.Printf("batchQueueWorker: shutting down, waiting for in-flight batches...")
			w.wg.Wait()
			log.Printf("batchQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.repo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, the Done case will fire next.
					continue
				}
				log.Printf("batchQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight batches complete even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
					defer cancel()

					log.Printf("batchQueueWorker: dispatching batch %s (%d documents)", job.ID, job.DocumentCount)
					w.service.ProcessQueued(jobCtx, &job)
				}()
			}
		}
	}
}
