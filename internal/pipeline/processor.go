// Package pipeline drives per-document processing for a batch: text
// extraction, structured field extraction and confidence scoring, with
// pacing between documents and per-document failure isolation.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"propintel/internal/domain"
	"propintel/internal/extractor"
	"propintel/internal/metrics"
	"propintel/internal/port"
)

// DefaultInterDocumentDelay is the pause between documents. It is a
// deliberate throttle against the external services' rate limits, not a
// performance knob: both services are charged and limited per call, and a
// concurrent burst risks throttling failures across the whole batch.
const DefaultInterDocumentDelay = 2 * time.Second

// ProgressEvent reports that a document is about to be processed.
type ProgressEvent struct {
	Index      int
	Total      int
	DocumentID string
	Filename   string
}

// ProgressFunc receives per-document progress signals, e.g. to drive a
// caller's progress bar. It is called synchronously on the batch goroutine.
type ProgressFunc func(ProgressEvent)

// SleepFunc pauses for d or until ctx is canceled. Injectable so tests can
// count pacing calls without waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds orchestration settings.
type Config struct {
	// InterDocumentDelay is slept after every document except the last.
	InterDocumentDelay time.Duration
}

// Processor sequences per-document processing across a batch. Documents are
// processed strictly in input order with a blocking delay between them; a
// failure on one document is recorded as data and never aborts the batch.
type Processor struct {
	textExtractor  port.TextExtractor
	fieldExtractor port.FieldExtractor
	cfg            Config
	sleep          SleepFunc
}

// Option configures a Processor.
type Option func(*Processor)

// WithSleep replaces the pacing sleep, for tests.
func WithSleep(fn SleepFunc) Option {
	return func(p *Processor) { p.sleep = fn }
}

// NewProcessor creates a Processor over the two extraction adapters.
func NewProcessor(textExtractor port.TextExtractor, fieldExtractor port.FieldExtractor, cfg Config, opts ...Option) *Processor {
	if cfg.InterDocumentDelay <= 0 {
		cfg.InterDocumentDelay = DefaultInterDocumentDelay
	}
	p := &Processor{
		textExtractor:  textExtractor,
		fieldExtractor: fieldExtractor,
		cfg:            cfg,
		sleep:          sleepWithContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBatch processes documents strictly in order and returns one
// ScoredExtraction per input document, in the same order. progress may be
// nil. Cancellation is checked between documents: on ctx cancellation the
// results accumulated so far are returned together with the context error.
// In-flight external calls are never aborted mid-call here; their own HTTP
// clients honor ctx.
func (p *Processor) ProcessBatch(ctx context.Context, docs []domain.RawDocument, progress ProgressFunc) ([]domain.ScoredExtraction, error) {
	results := make([]domain.ScoredExtraction, 0, len(docs))

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if progress != nil {
			progress(ProgressEvent{
				Index:      i,
				Total:      len(docs),
				DocumentID: doc.ID,
				Filename:   doc.Filename,
			})
		}

		results = append(results, p.processDocument(ctx, doc))

		// Pace between documents: after every document except the last.
		if i < len(docs)-1 {
			if err := p.sleep(ctx, p.cfg.InterDocumentDelay); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// processDocument runs one document through OCR, field extraction and
// scoring. Every failure path returns a well-formed result; nothing panics
// or propagates out of the document.
func (p *Processor) processDocument(ctx context.Context, doc domain.RawDocument) domain.ScoredExtraction {
	ocrStart := time.Now()
	ocrOut, err := p.textExtractor.ExtractText(ctx, port.TextExtractionInput{
		Content:     doc.Content,
		ContentType: doc.ContentType,
	})
	metrics.DocumentDuration.WithLabelValues("ocr").Observe(time.Since(ocrStart).Seconds())

	if err != nil {
		log.Printf("pipeline.Processor: OCR failed for document %s (%s): %v", doc.ID, doc.Filename, err)
		return p.finish(failedResult(doc.ID, ocrFailure(err.Error()), domain.FailureOCR, err.Error()))
	}

	result := domain.ExtractionResult{
		DocumentID:   doc.ID,
		Text:         ocrOut.Text,
		DocumentType: ocrOut.DocumentType,
		Language:     ocrOut.Language,
		OCRSuccess:   ocrOut.Success,
		OCRError:     ocrOut.Error,
	}

	if !ocrOut.Success {
		log.Printf("pipeline.Processor: OCR returned no text for document %s (%s): %s", doc.ID, doc.Filename, ocrOut.Error)
		return p.finish(failedResult(doc.ID, result, domain.FailureOCR, ocrOut.Error))
	}

	extractStart := time.Now()
	fieldsOut, err := p.fieldExtractor.ExtractFields(ctx, port.FieldExtractionInput{
		Text:         ocrOut.Text,
		DocumentType: ocrOut.DocumentType,
	})
	metrics.DocumentDuration.WithLabelValues("extract").Observe(time.Since(extractStart).Seconds())

	if err != nil {
		kind := classifyFailure(err)
		log.Printf("pipeline.Processor: field extraction failed for document %s (%s): %s: %v", doc.ID, doc.Filename, kind, err)
		return p.finish(failedResult(doc.ID, result, kind, err.Error()))
	}

	metrics.ExtractionTokensTotal.WithLabelValues(providerLabel(fieldsOut.Model), fieldsOut.Model).
		Add(float64(fieldsOut.TokensUsed))

	return p.finish(domain.ScoredExtraction{
		ExtractionResult: result,
		Fields:           fieldsOut.Fields,
		Confidence:       ConfidenceScore(fieldsOut.Fields),
		Model:            fieldsOut.Model,
		TokensUsed:       fieldsOut.TokensUsed,
		ProcessedAt:      time.Now().UTC(),
	})
}

func (p *Processor) finish(s domain.ScoredExtraction) domain.ScoredExtraction {
	outcome := "success"
	if !s.Succeeded() {
		outcome = string(s.Failure)
	}
	metrics.DocumentsProcessedTotal.WithLabelValues(string(s.DocumentType), outcome).Inc()
	return s
}

// classifyFailure maps an extraction error to its failure kind. Unknown
// errors fold into service_unavailable: from the batch's point of view the
// provider call did not produce fields.
func classifyFailure(err error) domain.FailureKind {
	if errors.Is(err, domain.ErrInsufficientText) {
		return domain.FailureInsufficientText
	}
	var malformed *extractor.MalformedResponseError
	if errors.As(err, &malformed) {
		return domain.FailureMalformedResponse
	}
	return domain.FailureServiceUnavailable
}

// ocrFailure builds the ExtractionResult recorded when the OCR adapter
// itself errored (transport failure before any heuristic could run).
func ocrFailure(msg string) domain.ExtractionResult {
	return domain.ExtractionResult{
		DocumentType: domain.DocumentTypeGeneric,
		Language:     "en",
		OCRSuccess:   false,
		OCRError:     msg,
	}
}

func failedResult(docID string, result domain.ExtractionResult, kind domain.FailureKind, detail string) domain.ScoredExtraction {
	result.DocumentID = docID
	return domain.ScoredExtraction{
		ExtractionResult: result,
		Fields:           domain.NewFields(),
		Confidence:       0,
		ProcessedAt:      time.Now().UTC(),
		Failure:          kind,
		FailureDetail:    detail,
	}
}

// providerLabel derives a coarse provider tag from a model identifier for
// the token counter.
func providerLabel(model string) string {
	switch {
	case model == "":
		return "unknown"
	case strings.HasPrefix(model, "claude"):
		return "claude"
	case strings.HasPrefix(model, "gemini"):
		return "gemini"
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return "openai"
	default:
		return "other"
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
