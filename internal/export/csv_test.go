package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propintel/internal/domain"
	"propintel/internal/export"
)

func sampleBatch() export.Batch {
	deedFields := domain.NewFields()
	deedFields.Set("deed-number", "1423")
	deedFields.Set("owner", "W. Fernando")
	deedFields.Set("address", "12 Galle Road, Colombo 03")

	processedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	results := []domain.ScoredExtraction{
		{
			ExtractionResult: domain.ExtractionResult{
				DocumentID:   "doc-1",
				DocumentType: domain.DocumentTypeTransferDeed,
				Language:     "en",
				OCRSuccess:   true,
			},
			Fields:      deedFields,
			Confidence:  78,
			Model:       "claude-sonnet-4-20250514",
			TokensUsed:  420,
			ProcessedAt: processedAt,
		},
		{
			ExtractionResult: domain.ExtractionResult{
				DocumentID: "doc-2",
				OCRSuccess: false,
				OCRError:   "no text recognized",
			},
			Fields:      domain.NewFields(),
			Failure:     domain.FailureOCR,
			ProcessedAt: processedAt,
		},
	}

	fused := domain.FusedRecord{
		Fields:            deedFields.Clone(),
		Provenance:        map[string]string{"deed-number": "doc-1", "owner": "doc-1", "address": "doc-1"},
		PrimarySource:     "doc-1",
		AverageConfidence: 39,
	}

	return export.Batch{
		Filenames: []string{"deed.pdf", "blank.jpg"},
		Results:   results,
		Fused:     &fused,
	}
}

func writeCSV(t *testing.T, batch export.Batch) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := export.NewWriter(&buf)
	require.NoError(t, w.WriteBatch(batch))
	w.Flush()
	require.NoError(t, w.Error())
	return &buf
}

func readRecords(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	r := csv.NewReader(buf)
	r.FieldsPerRecord = -1 // document and fused sections have different widths
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteBatch_DocumentSection(t *testing.T) {
	records := readRecords(t, writeCSV(t, sampleBatch()))
	require.GreaterOrEqual(t, len(records), 3)

	header := records[0]
	assert.Equal(t, []string{
		"Document ID", "Filename", "Document Type", "Language", "OCR Success",
		"Failure", "Confidence", "Model", "Tokens Used", "Processed At",
	}, header)

	deed := records[1]
	assert.Equal(t, "doc-1", deed[0])
	assert.Equal(t, "deed.pdf", deed[1])
	assert.Equal(t, "transfer-deed", deed[2])
	assert.Equal(t, "Yes", deed[4])
	assert.Equal(t, "", deed[5])
	assert.Equal(t, "78", deed[6])
	assert.Equal(t, "claude-sonnet-4-20250514", deed[7])
	assert.Equal(t, "420", deed[8])
	assert.Equal(t, "2026-03-14T09:30:00Z", deed[9])

	failedRow := records[2]
	assert.Equal(t, "doc-2", failedRow[0])
	assert.Equal(t, "blank.jpg", failedRow[1])
	assert.Equal(t, "No", failedRow[4])
	assert.Equal(t, "ocr_failure", failedRow[5])
	assert.Equal(t, "0", failedRow[6])
}

func TestWriteBatch_FusedSection(t *testing.T) {
	records := readRecords(t, writeCSV(t, sampleBatch()))
	require.Len(t, records, 7) // header + 2 docs + fused header + 3 fields

	assert.Equal(t, []string{"Field", "Value", "Source Document"}, records[3])
	assert.Equal(t, []string{"deed-number", "1423", "doc-1"}, records[4])
	assert.Equal(t, []string{"owner", "W. Fernando", "doc-1"}, records[5])
	assert.Equal(t, []string{"address", "12 Galle Road, Colombo 03", "doc-1"}, records[6])
}

func TestWriteBatch_NoFusedRecord(t *testing.T) {
	batch := sampleBatch()
	batch.Fused = nil

	records := readRecords(t, writeCSV(t, batch))

	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Len(t, rec, 10)
	}
}

func TestWriteBatch_MissingFilenameLeftBlank(t *testing.T) {
	batch := sampleBatch()
	batch.Filenames = batch.Filenames[:1]

	records := readRecords(t, writeCSV(t, batch))

	assert.Equal(t, "deed.pdf", records[1][1])
	assert.Equal(t, "", records[2][1])
}

func TestWriteBatch_EmptyBatch(t *testing.T) {
	records := readRecords(t, writeCSV(t, export.Batch{}))

	require.Len(t, records, 1)
	assert.Equal(t, "Document ID", records[0][0])
}
