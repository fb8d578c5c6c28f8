// Package export renders a completed batch as CSV or XLSX for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"propintel/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Batch is the exportable view of a processed batch. Filenames runs
// parallel to Results in batch order; the pipeline's order guarantee makes
// the correlation safe.
type Batch struct {
	Filenames []string
	Results   []domain.ScoredExtraction
	Fused     *domain.FusedRecord
}

// documentColumns defines the per-document CSV header row (10 columns).
var documentColumns = []string{
	"Document ID",
	"Filename",
	"Document Type",
	"Language",
	"OCR Success",
	"Failure",
	"Confidence",
	"Model",
	"Tokens Used",
	"Processed At",
}

// fusedColumns defines the consolidated-record section header (3 columns).
var fusedColumns = []string{
	"Field",
	"Value",
	"Source Document",
}

// Writer wraps csv.Writer for exporting a batch as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w. Callers wanting Excel
// compatibility should write BOM to w first.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteBatch writes the full export: the per-document section, a blank
// separator row, and the consolidated-record section when a fused record is
// present.
func (w *Writer) WriteBatch(batch Batch) error {
	if err := w.csv.Write(documentColumns); err != nil {
		return err
	}
	for i := range batch.Results {
		filename := ""
		if i < len(batch.Filenames) {
			filename = batch.Filenames[i]
		}
		if err := w.csv.Write(resultToRow(&batch.Results[i], filename)); err != nil {
			return err
		}
	}

	if batch.Fused == nil {
		return nil
	}

	if err := w.csv.Write([]string{}); err != nil {
		return err
	}
	if err := w.csv.Write(fusedColumns); err != nil {
		return err
	}
	for _, key := range batch.Fused.Fields.Keys() {
		row := []string{
			key,
			batch.Fused.Fields.Value(key),
			batch.Fused.Provenance[key],
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// resultToRow converts a single result to a 10-element string slice.
// Failed documents carry their failure tag and empty model columns.
func resultToRow(r *domain.ScoredExtraction, filename string) []string {
	row := make([]string, len(documentColumns))
	row[0] = r.DocumentID
	row[1] = filename
	row[2] = string(r.DocumentType)
	row[3] = r.Language
	row[4] = formatBool(r.OCRSuccess)
	row[5] = string(r.Failure)
	row[6] = strconv.Itoa(r.Confidence)
	row[7] = r.Model
	row[8] = strconv.Itoa(r.TokensUsed)
	row[9] = r.ProcessedAt.Format(time.RFC3339)
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
