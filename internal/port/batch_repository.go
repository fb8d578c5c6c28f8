package port

import (
	"context"

	"github.com/google/uuid"

	"propintel/internal/domain"
)

// BatchRepository defines the contract for batch job state. Jobs are
// transient operational records owned by the queue worker; implementations
// must be safe for concurrent use.
type BatchRepository interface {
	Create(ctx context.Context, job *domain.BatchJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error)
	List(ctx context.Context) ([]domain.BatchJob, error)
	Update(ctx context.Context, job *domain.BatchJob) error
	// ClaimQueued atomically moves up to limit queued jobs to processing
	// and returns them, oldest first.
	ClaimQueued(ctx context.Context, limit int) ([]domain.BatchJob, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
