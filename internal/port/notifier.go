package port

import (
	"context"

	"propintel/internal/domain"
)

// BatchNotifier defines the contract for batch-completion notifications.
type BatchNotifier interface {
	NotifyBatchCompleted(ctx context.Context, job *domain.BatchJob) error
}
