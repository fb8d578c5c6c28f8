package extractor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"propintel/internal/domain"
	"propintel/internal/port"
)

// DefaultMinTextLength is the minimum number of characters of recognized
// text worth sending to an extraction provider.
const DefaultMinTextLength = 10

// Extractor fronts an extraction provider (or provider chain) with the
// pre-flight checks shared by every provider. It implements
// port.FieldExtractor.
type Extractor struct {
	provider   port.FieldExtractor
	minTextLen int
}

// New wraps a provider with the minimum-text guard.
func New(provider port.FieldExtractor, minTextLen int) *Extractor {
	if minTextLen <= 0 {
		minTextLen = DefaultMinTextLength
	}
	return &Extractor{provider: provider, minTextLen: minTextLen}
}

// ExtractFields rejects trivially short text before any provider call is
// made, so OCR noise does not burn model quota. Length is counted in runes
// after trimming surrounding whitespace.
func (e *Extractor) ExtractFields(ctx context.Context, input port.FieldExtractionInput) (*port.FieldExtractionOutput, error) {
	n := utf8.RuneCountInString(strings.TrimSpace(input.Text))
	if n < e.minTextLen {
		return nil, fmt.Errorf("%w: got %d characters, need at least %d", domain.ErrInsufficientText, n, e.minTextLen)
	}
	return e.provider.ExtractFields(ctx, input)
}
