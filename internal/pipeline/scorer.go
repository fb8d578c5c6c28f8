package pipeline

import "propintel/internal/domain"

// ConfidenceScore rates how complete an extraction is, as a 0-100 integer:
// the rounded percentage of fields holding a real value (non-empty and not
// the "Not specified" sentinel). For fixed document types the denominator is
// the template size, since extraction always returns the full template key
// set; generic documents score over whatever keys the model returned.
//
// This is a completeness proxy, not a semantic-accuracy measure: a wrong
// value in every field still scores 100. No better metric is defined for
// this corpus, so the limitation is kept rather than papered over.
func ConfidenceScore(fields domain.Fields) int {
	total := fields.Len()
	if total == 0 {
		return 0
	}
	filled := fields.FilledCount()
	return int(float64(filled)/float64(total)*100 + 0.5)
}
