package port

import (
	"context"

	"propintel/internal/domain"
)

// FieldExtractionInput carries the recognized text and the document type
// that selects the instruction template.
type FieldExtractionInput struct {
	Text         string
	DocumentType domain.DocumentType
}

// FieldExtractionOutput contains the structured mapping returned by an LLM
// extraction provider.
type FieldExtractionOutput struct {
	Fields     domain.Fields
	Model      string
	TokensUsed int
	PromptUsed string
}

// FieldExtractor abstracts LLM-based structured field extraction.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, input FieldExtractionInput) (*FieldExtractionOutput, error)
}
