// Package fusion consolidates a batch's per-document extractions into one
// record, picking a primary source and back-filling its gaps from the other
// documents, with per-field provenance.
package fusion

import "propintel/internal/domain"

// Fuse merges the batch's results into a single FusedRecord. It is a pure
// function of its input: the same ordered result list always yields the
// same record, including provenance.
//
// The primary source is the successful result with strictly highest
// confidence; ties resolve to the earliest in batch order. Its fields seed
// the record verbatim, sentinel placeholders included. A second pass in
// batch order then overwrites every missing or sentinel value with the
// first real value any successful document supplies, so the fused record
// never shows "Not specified" for a field some document answered.
//
// A batch with no successful results degrades to an empty record rather
// than an error: no fields, no primary source, average confidence 0.
func Fuse(results []domain.ScoredExtraction) domain.FusedRecord {
	record := domain.FusedRecord{
		Fields:            domain.NewFields(),
		Provenance:        make(map[string]string),
		AverageConfidence: averageConfidence(results),
	}

	primary := primaryIndex(results)
	if primary == -1 {
		return record
	}

	seed := results[primary]
	record.PrimarySource = seed.DocumentID
	record.Fields = seed.Fields.Clone()
	for _, key := range record.Fields.Keys() {
		record.Provenance[key] = seed.DocumentID
	}

	// Back-fill pass, primary included so the step is idempotent: a field
	// the primary itself filled is never overwritten.
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		for _, key := range r.Fields.Keys() {
			if record.Fields.IsFilled(key) {
				continue
			}
			if !r.Fields.IsFilled(key) {
				continue
			}
			record.Fields.Set(key, r.Fields.Value(key))
			record.Provenance[key] = r.DocumentID
		}
	}

	return record
}

// primaryIndex returns the index of the successful result with the highest
// confidence, first-in-order winning ties, or -1 when none succeeded.
func primaryIndex(results []domain.ScoredExtraction) int {
	best := -1
	for i, r := range results {
		if !r.Succeeded() {
			continue
		}
		if best == -1 || r.Confidence > results[best].Confidence {
			best = i
		}
	}
	return best
}

// averageConfidence is the rounded mean over ALL results, failures
// included at confidence 0. A partially failed batch therefore reports a
// degraded aggregate even when the surviving documents scored well.
func averageConfidence(results []domain.ScoredExtraction) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Confidence
	}
	return int(float64(sum)/float64(len(results)) + 0.5)
}
