package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propintel/internal/domain"
	"propintel/internal/pipeline"
)

func TestConfidenceScore_Empty(t *testing.T) {
	assert.Equal(t, 0, pipeline.ConfidenceScore(domain.NewFields()))
}

func TestConfidenceScore_AllFilled(t *testing.T) {
	f := domain.NewFields()
	f.Set("deed-number", "4823")
	f.Set("owner", "K. A. Perera")
	assert.Equal(t, 100, pipeline.ConfidenceScore(f))
}

func TestConfidenceScore_SentinelAndEmptyCountAsUnfilled(t *testing.T) {
	f := domain.NewFields()
	f.Set("deed-number", "4823")
	f.Set("previous-owner", domain.NotSpecified)
	f.Set("address", "")
	f.Set("extent", "2 acres")
	assert.Equal(t, 50, pipeline.ConfidenceScore(f))
}

func TestConfidenceScore_Rounding(t *testing.T) {
	// 5 of 9 filled: 55.55 rounds to 56.
	f := domain.TemplateFor(domain.DocumentTypeTransferDeed).NewFields()
	filled := 0
	for _, key := range f.Keys() {
		if filled == 5 {
			break
		}
		f.Set(key, "value")
		filled++
	}
	assert.Equal(t, 56, pipeline.ConfidenceScore(f))

	// 1 of 3: 33.33 rounds to 33; 2 of 3: 66.67 rounds to 67.
	third := domain.NewFields()
	third.Set("a", "x")
	third.Set("b", domain.NotSpecified)
	third.Set("c", domain.NotSpecified)
	assert.Equal(t, 33, pipeline.ConfidenceScore(third))

	third.Set("b", "y")
	assert.Equal(t, 67, pipeline.ConfidenceScore(third))
}

func TestConfidenceScore_Bounds(t *testing.T) {
	all := domain.TemplateFor(domain.DocumentTypeSurveyPlan).NewFields()
	assert.Equal(t, 0, pipeline.ConfidenceScore(all), "a fresh template scores zero")

	for _, key := range all.Keys() {
		all.Set(key, "v")
	}
	assert.Equal(t, 100, pipeline.ConfidenceScore(all))
}
