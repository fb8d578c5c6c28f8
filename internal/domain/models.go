package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument is a single scanned or photographed property document
// submitted for processing. It is immutable once created and is not
// retained beyond the batch that carries it.
type RawDocument struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Content     []byte `json:"-"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NewRawDocument builds a RawDocument with a fresh identifier and the size
// recorded from the content.
func NewRawDocument(filename, contentType string, content []byte) RawDocument {
	return RawDocument{
		ID:          uuid.NewString(),
		Filename:    filename,
		Content:     content,
		ContentType: contentType,
		Size:        int64(len(content)),
	}
}

// ExtractionResult is the outcome of the text-extraction step for one
// document. An OCR failure is recorded here as data rather than raised, so
// the rest of the batch keeps going.
type ExtractionResult struct {
	DocumentID   string       `json:"document_id"`
	Text         string       `json:"text"`
	DocumentType DocumentType `json:"document_type"`
	Language     string       `json:"language"`
	OCRSuccess   bool         `json:"ocr_success"`
	OCRError     string       `json:"ocr_error,omitempty"`
}

// ScoredExtraction is the fully processed outcome for one document:
// extraction result, structured fields, completeness confidence and model
// metadata. Failure and Confidence are mutually exclusive: a failed
// document carries confidence 0 and empty Fields.
type ScoredExtraction struct {
	ExtractionResult
	Fields        Fields      `json:"fields"`
	Confidence    int         `json:"confidence"`
	Model         string      `json:"model,omitempty"`
	TokensUsed    int         `json:"tokens_used,omitempty"`
	ProcessedAt   time.Time   `json:"processed_at"`
	Failure       FailureKind `json:"failure,omitempty"`
	FailureDetail string      `json:"failure_detail,omitempty"`
}

// Succeeded reports whether the document produced structured data.
func (s ScoredExtraction) Succeeded() bool {
	return s.Failure == ""
}

// FusedRecord is the consolidated answer for a whole batch: the primary
// document's fields back-filled from the other successful documents, with
// per-field provenance. PrimarySource is empty when no document succeeded.
type FusedRecord struct {
	Fields            Fields            `json:"fields"`
	Provenance        map[string]string `json:"provenance"`
	PrimarySource     string            `json:"primary_source,omitempty"`
	AverageConfidence int               `json:"average_confidence"`
}

// BatchJob tracks one submitted batch through the queue. Documents hold the
// raw content until processing completes and are never serialized.
type BatchJob struct {
	ID            uuid.UUID          `json:"id"`
	Status        BatchStatus        `json:"status"`
	Documents     []RawDocument      `json:"-"`
	DocumentCount int                `json:"document_count"`
	Processed     int                `json:"processed"`
	Filenames     []string           `json:"filenames"`
	ArchiveKeys   []string           `json:"archive_keys,omitempty"`
	Results       []ScoredExtraction `json:"results,omitempty"`
	Fused         *FusedRecord       `json:"fused,omitempty"`
	Error         string             `json:"error,omitempty"`
	SubmittedAt   time.Time          `json:"submitted_at"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}
