package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"propintel/internal/config"
	"propintel/internal/domain"
	"propintel/internal/fusion"
	"propintel/internal/metrics"
	"propintel/internal/pipeline"
	"propintel/internal/port"
)

// DocumentRef points at an already-uploaded object in storage.
type DocumentRef struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type,omitempty"`
}

// BatchOutcome bundles the ordered per-document results with the fused
// consolidated record.
type BatchOutcome struct {
	Results []domain.ScoredExtraction `json:"results"`
	Fused   domain.FusedRecord        `json:"fused"`
}

// BatchProcessor runs the per-document pipeline over an ordered batch.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, docs []domain.RawDocument, progress pipeline.ProgressFunc) ([]domain.ScoredExtraction, error)
}

// BatchService defines the batch lifecycle contract: submission, queueing,
// processing, fusion and cleanup.
type BatchService interface {
	Submit(ctx context.Context, docs []domain.RawDocument) (*domain.BatchJob, error)
	SubmitFromStorage(ctx context.Context, refs []DocumentRef) (*domain.BatchJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error)
	List(ctx context.Context) ([]domain.BatchJob, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ArchiveURLs(ctx context.Context, job *domain.BatchJob) ([]string, error)
	ProcessAndFuse(ctx context.Context, docs []domain.RawDocument, progress pipeline.ProgressFunc) (*BatchOutcome, error)
	Extract(ctx context.Context, doc domain.RawDocument) (*BatchOutcome, error)
	ProcessQueued(ctx context.Context, job *domain.BatchJob)
}

type batchService struct {
	repo      port.BatchRepository
	processor BatchProcessor
	storage   port.ObjectStorage // nil when object storage is not configured
	notifier  port.BatchNotifier
	cfg       *config.S3Config
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	repo port.BatchRepository,
	processor BatchProcessor,
	storage port.ObjectStorage,
	notifier port.BatchNotifier,
	cfg *config.S3Config,
) BatchService {
	return &batchService{
		repo:      repo,
		processor: processor,
		storage:   storage,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *batchService) Submit(ctx context.Context, docs []domain.RawDocument) (*domain.BatchJob, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	for i := range docs {
		if err := s.validateDocument(&docs[i]); err != nil {
			return nil, err
		}
	}

	job := &domain.BatchJob{
		ID:            uuid.New(),
		Status:        domain.BatchStatusQueued,
		Documents:     docs,
		DocumentCount: len(docs),
		Filenames:     filenames(docs),
		SubmittedAt:   time.Now().UTC(),
	}

	if s.cfg.ArchiveUploads && s.storage != nil {
		job.ArchiveKeys = s.archiveDocuments(ctx, job.ID, docs)
	}

	log.Printf("batchService.Submit: queueing batch %s with %d document(s)", job.ID, len(docs))

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating batch job: %w", err)
	}
	return job, nil
}

func (s *batchService) SubmitFromStorage(ctx context.Context, refs []DocumentRef) (*domain.BatchJob, error) {
	if len(refs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if s.storage == nil {
		return nil, errors.New("object storage is not configured")
	}

	docs := make([]domain.RawDocument, 0, len(refs))
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref.Key) == "" {
			return nil, domain.ErrInvalidInput
		}
		content, err := s.storage.Download(ctx, s.cfg.Bucket, ref.Key)
		if err != nil {
			log.Printf("batchService.SubmitFromStorage: download failed for key %s: %v", ref.Key, err)
			return nil, fmt.Errorf("downloading %s: %w", ref.Key, err)
		}

		doc := domain.NewRawDocument(path.Base(ref.Key), ref.ContentType, content)
		if err := s.validateDocument(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		keys = append(keys, ref.Key)
	}

	job := &domain.BatchJob{
		ID:            uuid.New(),
		Status:        domain.BatchStatusQueued,
		Documents:     docs,
		DocumentCount: len(docs),
		Filenames:     filenames(docs),
		ArchiveKeys:   keys,
		SubmittedAt:   time.Now().UTC(),
	}

	log.Printf("batchService.SubmitFromStorage: queueing batch %s with %d document(s)", job.ID, len(docs))

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating batch job: %w", err)
	}
	return job, nil
}

func (s *batchService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *batchService) List(ctx context.Context) ([]domain.BatchJob, error) {
	return s.repo.List(ctx)
}

func (s *batchService) Delete(ctx context.Context, id uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	log.Printf("batchService.Delete: deleting batch %s", id)

	if s.storage != nil {
		for _, key := range job.ArchiveKeys {
			if key == "" {
				continue
			}
			if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
				// Best effort: a missing archive object must not keep the
				// job record around forever.
				log.Printf("batchService.Delete: failed to delete archived object %s: %v", key, err)
			}
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *batchService) ArchiveURLs(ctx context.Context, job *domain.BatchJob) ([]string, error) {
	if s.storage == nil || len(job.ArchiveKeys) == 0 {
		return nil, nil
	}

	urls := make([]string, len(job.ArchiveKeys))
	for i, key := range job.ArchiveKeys {
		if key == "" {
			continue
		}
		url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presigning %s: %w", key, err)
		}
		urls[i] = url
	}
	return urls, nil
}

// ProcessAndFuse runs the full pipeline over the documents in order and
// consolidates the successful results into a single fused record. On
// cancellation the batch outcome is discarded and the context error returned.
func (s *batchService) ProcessAndFuse(ctx context.Context, docs []domain.RawDocument, progress pipeline.ProgressFunc) (*BatchOutcome, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	results, err := s.processor.ProcessBatch(ctx, docs, progress)
	if err != nil {
		return nil, err
	}

	return &BatchOutcome{
		Results: results,
		Fused:   fusion.Fuse(results),
	}, nil
}

// Extract validates and processes a single document synchronously, fusing
// over the one result. Intended for the interactive single-document path;
// queued batches go through Submit.
func (s *batchService) Extract(ctx context.Context, doc domain.RawDocument) (*BatchOutcome, error) {
	if err := s.validateDocument(&doc); err != nil {
		return nil, err
	}
	return s.ProcessAndFuse(ctx, []domain.RawDocument{doc}, nil)
}

// ProcessQueued drives one claimed batch job to a terminal state, updating
// the stored record as each document finishes. Errors are recorded on the
// job rather than returned: the worker has nobody to hand them to.
func (s *batchService) ProcessQueued(ctx context.Context, job *domain.BatchJob) {
	started := time.Now().UTC()
	job.Status = domain.BatchStatusProcessing
	job.StartedAt = &started
	job.Processed = 0
	if err := s.repo.Update(ctx, job); err != nil {
		log.Printf("batchService.ProcessQueued: failed to mark batch %s processing: %v", job.ID, err)
	}

	progress := func(e pipeline.ProgressEvent) {
		log.Printf("batchService.ProcessQueued: batch %s document %d/%d (%s)",
			job.ID, e.Index+1, e.Total, e.Filename)
		job.Processed = e.Index
		if err := s.repo.Update(ctx, job); err != nil {
			log.Printf("batchService.ProcessQueued: progress update failed for batch %s: %v", job.ID, err)
		}
	}

	outcome, err := s.ProcessAndFuse(ctx, job.Documents, progress)

	completed := time.Now().UTC()
	job.CompletedAt = &completed

	if err != nil {
		log.Printf("batchService.ProcessQueued: batch %s failed: %v", job.ID, err)
		job.Status = domain.BatchStatusFailed
		job.Error = err.Error()
		metrics.BatchesProcessedTotal.WithLabelValues(string(domain.BatchStatusFailed)).Inc()
	} else {
		job.Results = outcome.Results
		fused := outcome.Fused
		job.Fused = &fused
		job.Processed = len(outcome.Results)
		job.Status = domain.BatchStatusCompleted
		job.Documents = nil // release raw content, the job record lives on
		metrics.BatchesProcessedTotal.WithLabelValues(string(domain.BatchStatusCompleted)).Inc()
		metrics.BatchAverageConfidence.Observe(float64(fused.AverageConfidence))
	}
	metrics.BatchDuration.Observe(completed.Sub(started).Seconds())

	if err := s.repo.Update(ctx, job); err != nil {
		log.Printf("batchService.ProcessQueued: failed to store result for batch %s: %v", job.ID, err)
	}

	log.Printf("batchService.ProcessQueued: batch %s finished with status %s in %s",
		job.ID, job.Status, completed.Sub(started).Round(time.Millisecond))

	if s.notifier != nil {
		if err := s.notifier.NotifyBatchCompleted(ctx, job); err != nil {
			log.Printf("batchService.ProcessQueued: notification failed for batch %s: %v", job.ID, err)
		}
	}
}

// validateDocument checks extension, declared and sniffed content type and
// size, and fills in a missing ContentType from the sniffed value.
func (s *batchService) validateDocument(doc *domain.RawDocument) error {
	if doc.Filename == "" || len(doc.Content) == 0 {
		return domain.ErrInvalidInput
	}

	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Filename), ".")); ext != "" {
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			return domain.ErrUnsupportedFileType
		}
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if doc.Size > maxBytes {
		return domain.ErrFileTooLarge
	}

	detected := http.DetectContentType(doc.Content[:min(len(doc.Content), 512)])
	if doc.ContentType == "" {
		doc.ContentType = detected
	}
	if _, ok := domain.AllowedContentTypes[doc.ContentType]; !ok {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

// archiveDocuments uploads the raw uploads under the batch prefix so they can
// be re-fetched later. Archiving is best effort; a failed upload leaves an
// empty key at that position.
func (s *batchService) archiveDocuments(ctx context.Context, batchID uuid.UUID, docs []domain.RawDocument) []string {
	keys := make([]string, len(docs))
	for i, doc := range docs {
		key := fmt.Sprintf("batches/%s/%d_%s", batchID, i, doc.Filename)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(doc.Content),
			ContentType: doc.ContentType,
			Size:        doc.Size,
		})
		if err != nil {
			log.Printf("batchService.archiveDocuments: archive failed for %s: %v", doc.Filename, err)
			continue
		}
		keys[i] = key
	}
	return keys
}

func filenames(docs []domain.RawDocument) []string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Filename
	}
	return names
}
