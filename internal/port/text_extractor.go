package port

import (
	"context"

	"propintel/internal/domain"
)

// TextExtractionInput carries the raw document payload for OCR.
type TextExtractionInput struct {
	Content     []byte
	ContentType string
}

// TextExtractionOutput is the OCR outcome. Success is false when the
// service returned no usable text; Error then holds the reason. A false
// Success is data, not a Go error: the pipeline records it and moves on.
type TextExtractionOutput struct {
	Text         string
	DocumentType domain.DocumentType
	Language     string
	Success      bool
	Error        string
}

// TextExtractor abstracts the optical-character-recognition service plus
// the document-type and language heuristics applied to its output.
type TextExtractor interface {
	ExtractText(ctx context.Context, input TextExtractionInput) (*TextExtractionOutput, error)
}
