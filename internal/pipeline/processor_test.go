package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propintel/internal/domain"
	"propintel/internal/extractor"
	"propintel/internal/pipeline"
	"propintel/internal/port"
	"propintel/mocks"
)

func noSleep(t *testing.T) (pipeline.Option, *int) {
	t.Helper()
	calls := 0
	return pipeline.WithSleep(func(ctx context.Context, d time.Duration) error {
		calls++
		return nil
	}), &calls
}

func textOutput(text string) *port.TextExtractionOutput {
	return &port.TextExtractionOutput{
		Text:         text,
		DocumentType: domain.DocumentTypeTransferDeed,
		Language:     "en",
		Success:      true,
	}
}

func fieldsOutput(pairs ...string) *port.FieldExtractionOutput {
	f := domain.NewFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return &port.FieldExtractionOutput{
		Fields:     f,
		Model:      "claude-sonnet-4-20250514",
		TokensUsed: 420,
	}
}

func TestProcessBatch_OrderPreserved(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)

	docs := []domain.RawDocument{
		domain.NewRawDocument("deed.pdf", "application/pdf", []byte("deed-bytes")),
		domain.NewRawDocument("plan.jpg", "image/jpeg", []byte("plan-bytes")),
		domain.NewRawDocument("title.png", "image/png", []byte("title-bytes")),
	}

	for i, doc := range docs {
		text := fmt.Sprintf("deed of transfer number %d made this day", i)
		ocr.On("ExtractText", mock.Anything, port.TextExtractionInput{
			Content:     doc.Content,
			ContentType: doc.ContentType,
		}).Return(textOutput(text), nil).Once()
		fe.On("ExtractFields", mock.Anything, port.FieldExtractionInput{
			Text:         text,
			DocumentType: domain.DocumentTypeTransferDeed,
		}).Return(fieldsOutput("deed-number", fmt.Sprintf("%d", i)), nil).Once()
	}

	sleep, _ := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{InterDocumentDelay: time.Second}, sleep)

	results, err := p.ProcessBatch(context.Background(), docs, nil)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	for i, r := range results {
		assert.Equal(t, docs[i].ID, r.DocumentID, "result %d must correspond to input %d", i, i)
		assert.Equal(t, fmt.Sprintf("%d", i), r.Fields.Value("deed-number"))
		assert.True(t, r.Succeeded())
	}

	ocr.AssertExpectations(t)
	fe.AssertExpectations(t)
}

func TestProcessBatch_PacingBetweenDocumentsOnly(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)
	ocr.On("ExtractText", mock.Anything, mock.Anything).Return(textOutput("deed of transfer made between parties"), nil)
	fe.On("ExtractFields", mock.Anything, mock.Anything).Return(fieldsOutput("deed-number", "123"), nil)

	var delays []time.Duration
	sleep := pipeline.WithSleep(func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{InterDocumentDelay: 2 * time.Second}, sleep)

	docs := []domain.RawDocument{
		domain.NewRawDocument("a.pdf", "application/pdf", []byte("a")),
		domain.NewRawDocument("b.pdf", "application/pdf", []byte("b")),
		domain.NewRawDocument("c.pdf", "application/pdf", []byte("c")),
		domain.NewRawDocument("d.pdf", "application/pdf", []byte("d")),
	}

	_, err := p.ProcessBatch(context.Background(), docs, nil)
	require.NoError(t, err)

	// N documents pace N-1 times, never after the last.
	require.Len(t, delays, 3)
	for _, d := range delays {
		assert.Equal(t, 2*time.Second, d)
	}
}

func TestProcessBatch_SingleDocumentNoPacing(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)
	ocr.On("ExtractText", mock.Anything, mock.Anything).Return(textOutput("survey plan of the land called Melwatte"), nil)
	fe.On("ExtractFields", mock.Anything, mock.Anything).Return(fieldsOutput("plan-number", "4711"), nil)

	sleep, calls := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	docs := []domain.RawDocument{domain.NewRawDocument("only.pdf", "application/pdf", []byte("x"))}
	results, err := p.ProcessBatch(context.Background(), docs, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, *calls)
}

func TestProcessBatch_OCRTransportErrorIsolated(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)

	good := domain.NewRawDocument("good.pdf", "application/pdf", []byte("good"))
	bad := domain.NewRawDocument("bad.pdf", "application/pdf", []byte("bad"))
	tail := domain.NewRawDocument("tail.pdf", "application/pdf", []byte("tail"))

	ocr.On("ExtractText", mock.Anything, port.TextExtractionInput{Content: good.Content, ContentType: good.ContentType}).
		Return(textOutput("deed of transfer for the first property"), nil)
	ocr.On("ExtractText", mock.Anything, port.TextExtractionInput{Content: bad.Content, ContentType: bad.ContentType}).
		Return(nil, errors.New("connection reset"))
	ocr.On("ExtractText", mock.Anything, port.TextExtractionInput{Content: tail.Content, ContentType: tail.ContentType}).
		Return(textOutput("deed of transfer for the last property"), nil)
	fe.On("ExtractFields", mock.Anything, mock.Anything).Return(fieldsOutput("deed-number", "77"), nil)

	sleep, _ := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	results, err := p.ProcessBatch(context.Background(), []domain.RawDocument{good, bad, tail}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Succeeded())

	assert.False(t, results[1].Succeeded())
	assert.Equal(t, domain.FailureOCR, results[1].Failure)
	assert.Equal(t, 0, results[1].Confidence)
	assert.Equal(t, 0, results[1].Fields.Len())
	assert.Contains(t, results[1].FailureDetail, "connection reset")

	assert.True(t, results[2].Succeeded(), "documents after a failure must still be processed")
}

func TestProcessBatch_OCRNoTextRecordedAsData(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)

	ocr.On("ExtractText", mock.Anything, mock.Anything).Return(&port.TextExtractionOutput{
		DocumentType: domain.DocumentTypeGeneric,
		Language:     "en",
		Success:      false,
		Error:        "no text annotations in response",
	}, nil)

	sleep, _ := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	docs := []domain.RawDocument{domain.NewRawDocument("blank.jpg", "image/jpeg", []byte("blank"))}
	results, err := p.ProcessBatch(context.Background(), docs, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, domain.FailureOCR, r.Failure)
	assert.False(t, r.OCRSuccess)
	assert.Equal(t, "no text annotations in response", r.OCRError)
	fe.AssertNotCalled(t, "ExtractFields", mock.Anything, mock.Anything)
}

func TestProcessBatch_ExtractionFailureKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind domain.FailureKind
	}{
		{
			name: "insufficient text",
			err:  fmt.Errorf("%w: got 3 characters, need at least 10", domain.ErrInsufficientText),
			kind: domain.FailureInsufficientText,
		},
		{
			name: "malformed response",
			err:  extractor.NewMalformedResponseError("claude", errors.New("not a JSON object"), "oops"),
			kind: domain.FailureMalformedResponse,
		},
		{
			name: "service unavailable",
			err:  extractor.NewServiceUnavailableError("claude", errors.New("503")),
			kind: domain.FailureServiceUnavailable,
		},
		{
			name: "rate limited",
			err:  extractor.NewRateLimitError("claude", errors.New("429"), 30),
			kind: domain.FailureServiceUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ocr := new(mocks.MockTextExtractor)
			fe := new(mocks.MockFieldExtractor)
			ocr.On("ExtractText", mock.Anything, mock.Anything).
				Return(textOutput("deed of transfer bearing number 4823 of the notary"), nil)
			fe.On("ExtractFields", mock.Anything, mock.Anything).Return(nil, tc.err)

			sleep, _ := noSleep(t)
			p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

			docs := []domain.RawDocument{domain.NewRawDocument("doc.pdf", "application/pdf", []byte("x"))}
			results, err := p.ProcessBatch(context.Background(), docs, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)

			r := results[0]
			assert.Equal(t, tc.kind, r.Failure)
			assert.Equal(t, 0, r.Confidence)
			assert.True(t, r.OCRSuccess, "the OCR outcome survives an extraction failure")
			assert.NotEmpty(t, r.Text)
		})
	}
}

func TestProcessBatch_CancellationReturnsPartialResults(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)
	ocr.On("ExtractText", mock.Anything, mock.Anything).Return(textOutput("deed of transfer attested before me"), nil)
	fe.On("ExtractFields", mock.Anything, mock.Anything).Return(fieldsOutput("deed-number", "9"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	sleep := pipeline.WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	docs := []domain.RawDocument{
		domain.NewRawDocument("a.pdf", "application/pdf", []byte("a")),
		domain.NewRawDocument("b.pdf", "application/pdf", []byte("b")),
		domain.NewRawDocument("c.pdf", "application/pdf", []byte("c")),
	}

	results, err := p.ProcessBatch(ctx, docs, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1, "results accumulated before cancellation are returned")
}

func TestProcessBatch_PreCanceledContext(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sleep, _ := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	docs := []domain.RawDocument{domain.NewRawDocument("a.pdf", "application/pdf", []byte("a"))}
	results, err := p.ProcessBatch(ctx, docs, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	ocr.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestProcessBatch_ProgressEvents(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)
	ocr.On("ExtractText", mock.Anything, mock.Anything).Return(textOutput("certificate of title issued under the ordinance"), nil)
	fe.On("ExtractFields", mock.Anything, mock.Anything).Return(fieldsOutput("certificate-number", "T-100"), nil)

	docs := []domain.RawDocument{
		domain.NewRawDocument("first.pdf", "application/pdf", []byte("1")),
		domain.NewRawDocument("second.pdf", "application/pdf", []byte("2")),
	}

	var events []pipeline.ProgressEvent
	sleep, _ := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	_, err := p.ProcessBatch(context.Background(), docs, func(e pipeline.ProgressEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, pipeline.ProgressEvent{Index: 0, Total: 2, DocumentID: docs[0].ID, Filename: "first.pdf"}, events[0])
	assert.Equal(t, pipeline.ProgressEvent{Index: 1, Total: 2, DocumentID: docs[1].ID, Filename: "second.pdf"}, events[1])
}

func TestProcessBatch_EmptyBatch(t *testing.T) {
	ocr := new(mocks.MockTextExtractor)
	fe := new(mocks.MockFieldExtractor)

	sleep, calls := noSleep(t)
	p := pipeline.NewProcessor(ocr, fe, pipeline.Config{}, sleep)

	results, err := p.ProcessBatch(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, *calls)
}
