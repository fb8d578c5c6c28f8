// Package memory provides the in-memory batch job store. Batch jobs are
// transient operational state owned by the queue worker; nothing here
// persists across restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"propintel/internal/domain"
	"propintel/internal/port"
)

type batchRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.BatchJob
}

// NewBatchRepo creates an empty in-memory batch repository.
func NewBatchRepo() port.BatchRepository {
	return &batchRepo{jobs: make(map[uuid.UUID]*domain.BatchJob)}
}

func (r *batchRepo) Create(_ context.Context, job *domain.BatchJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneJob(job)
	r.jobs[job.ID] = &stored
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	out := cloneJob(job)
	return &out, nil
}

func (r *batchRepo) List(_ context.Context) ([]domain.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BatchJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, cloneJob(job))
	}
	// Newest first; ID breaks submission-time ties deterministically.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *batchRepo) Update(_ context.Context, job *domain.BatchJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return domain.ErrBatchNotFound
	}
	stored := cloneJob(job)
	r.jobs[job.ID] = &stored
	return nil
}

func (r *batchRepo) ClaimQueued(_ context.Context, limit int) ([]domain.BatchJob, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	queued := make([]*domain.BatchJob, 0)
	for _, job := range r.jobs {
		if job.Status == domain.BatchStatusQueued {
			queued = append(queued, job)
		}
	}
	// Oldest first, so long-waiting batches are picked up before new ones.
	sort.Slice(queued, func(i, j int) bool {
		if !queued[i].SubmittedAt.Equal(queued[j].SubmittedAt) {
			return queued[i].SubmittedAt.Before(queued[j].SubmittedAt)
		}
		return queued[i].ID.String() < queued[j].ID.String()
	})
	if len(queued) > limit {
		queued = queued[:limit]
	}

	claimed := make([]domain.BatchJob, 0, len(queued))
	for _, job := range queued {
		job.Status = domain.BatchStatusProcessing
		claimed = append(claimed, cloneJob(job))
	}
	return claimed, nil
}

func (r *batchRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrBatchNotFound
	}
	delete(r.jobs, id)
	return nil
}

// cloneJob copies a job deeply enough that callers and the store never
// share mutable state.
func cloneJob(job *domain.BatchJob) domain.BatchJob {
	out := *job
	if job.Documents != nil {
		out.Documents = make([]domain.RawDocument, len(job.Documents))
		copy(out.Documents, job.Documents)
	}
	if job.Filenames != nil {
		out.Filenames = make([]string, len(job.Filenames))
		copy(out.Filenames, job.Filenames)
	}
	if job.ArchiveKeys != nil {
		out.ArchiveKeys = make([]string, len(job.ArchiveKeys))
		copy(out.ArchiveKeys, job.ArchiveKeys)
	}
	if job.Results != nil {
		out.Results = make([]domain.ScoredExtraction, len(job.Results))
		copy(out.Results, job.Results)
		for i := range out.Results {
			out.Results[i].Fields = out.Results[i].Fields.Clone()
		}
	}
	if job.Fused != nil {
		fused := *job.Fused
		fused.Fields = fused.Fields.Clone()
		if job.Fused.Provenance != nil {
			fused.Provenance = make(map[string]string, len(job.Fused.Provenance))
			for k, v := range job.Fused.Provenance {
				fused.Provenance[k] = v
			}
		}
		out.Fused = &fused
	}
	return out
}
