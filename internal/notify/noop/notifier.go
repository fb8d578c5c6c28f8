package noop

import (
	"context"
	"log"

	"propintel/internal/domain"
	"propintel/internal/port"
)

type noopNotifier struct{}

// NewNotifier creates a no-op BatchNotifier that only logs completions.
func NewNotifier() port.BatchNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyBatchCompleted(_ context.Context, job *domain.BatchJob) error {
	avg := 0
	if job.Fused != nil {
		avg = job.Fused.AverageConfidence
	}
	log.Printf("[NOOP NOTIFY] batch %s completed: %d documents, average confidence %d", job.ID, job.DocumentCount, avg)
	return nil
}
