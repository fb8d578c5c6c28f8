package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"propintel/internal/config"
	"propintel/internal/domain"
	"propintel/internal/ocr"
	"propintel/internal/port"
)

const apiBaseURL = "https://vision.googleapis.com/v1"

// Client implements port.TextExtractor using the Google Cloud Vision API.
// Images go through images:annotate; PDFs and TIFFs go through
// files:annotate with inline content (first five pages, the sync limit).
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Vision-based text extractor.
func NewClient(cfg *config.OCRConfig) *Client {
	return newClient(cfg, "")
}

// NewClientWithBaseURL creates a client pointing at a custom API base URL (for testing).
func NewClientWithBaseURL(cfg *config.OCRConfig, baseURL string) *Client {
	return newClient(cfg, baseURL)
}

func newClient(cfg *config.OCRConfig, baseURL string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if baseURL == "" {
		baseURL = apiBaseURL
		if cfg.Endpoint != "" {
			baseURL = cfg.Endpoint
		}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// ExtractText extracts text from the document and applies the document-type
// and language heuristics. A service response without usable text is
// reported via Success=false, not as an error.
func (c *Client) ExtractText(ctx context.Context, input port.TextExtractionInput) (*port.TextExtractionOutput, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	switch input.ContentType {
	case "image/jpeg", "image/png", "image/webp":
		return c.annotateImage(ctx, input.Content)
	case "application/pdf", "image/tiff":
		return c.annotateFile(ctx, input.Content, input.ContentType)
	default:
		return nil, fmt.Errorf("unsupported content type for text extraction: %s", input.ContentType)
	}
}

type visionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type textAnnotation struct {
	Text string `json:"text"`
}

type imageAnnotateResponse struct {
	Responses []struct {
		FullTextAnnotation *textAnnotation `json:"fullTextAnnotation"`
		TextAnnotations    []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *visionError `json:"error"`
	} `json:"responses"`
}

func (c *Client) annotateImage(ctx context.Context, content []byte) (*port.TextExtractionOutput, error) {
	reqBody := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"image": map[string]interface{}{
					"content": base64.StdEncoding.EncodeToString(content),
				},
				"features": []map[string]interface{}{
					{"type": "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	respBody, err := c.post(ctx, "/images:annotate", reqBody)
	if err != nil {
		return nil, err
	}

	var resp imageAnnotateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Responses) == 0 {
		return failedOutput("empty response from API: no annotations"), nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return failedOutput(fmt.Sprintf("vision service error: %s", r.Error.Message)), nil
	}

	text := ""
	if r.FullTextAnnotation != nil {
		text = r.FullTextAnnotation.Text
	}
	if text == "" && len(r.TextAnnotations) > 0 {
		text = r.TextAnnotations[0].Description
	}
	if text == "" {
		return failedOutput("no text detected in document"), nil
	}
	return successOutput(text), nil
}

type fileAnnotateResponse struct {
	Responses []struct {
		Responses []struct {
			FullTextAnnotation *textAnnotation `json:"fullTextAnnotation"`
			Error              *visionError    `json:"error"`
		} `json:"responses"`
		TotalPages int          `json:"totalPages"`
		Error      *visionError `json:"error"`
	} `json:"responses"`
}

func (c *Client) annotateFile(ctx context.Context, content []byte, contentType string) (*port.TextExtractionOutput, error) {
	reqBody := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"inputConfig": map[string]interface{}{
					"content":  base64.StdEncoding.EncodeToString(content),
					"mimeType": contentType,
				},
				"features": []map[string]interface{}{
					{"type": "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	respBody, err := c.post(ctx, "/files:annotate", reqBody)
	if err != nil {
		return nil, err
	}

	var resp fileAnnotateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Responses) == 0 {
		return failedOutput("empty response from API: no annotations"), nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return failedOutput(fmt.Sprintf("vision service error: %s", r.Error.Message)), nil
	}

	var pages []string
	for _, page := range r.Responses {
		if page.Error != nil || page.FullTextAnnotation == nil {
			continue
		}
		if page.FullTextAnnotation.Text != "" {
			pages = append(pages, page.FullTextAnnotation.Text)
		}
	}
	if len(pages) == 0 {
		return failedOutput("no text detected in document"), nil
	}
	return successOutput(strings.Join(pages, "\n")), nil
}

func (c *Client) post(ctx context.Context, path string, reqBody interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vision API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return respBody, nil
}

func successOutput(text string) *port.TextExtractionOutput {
	return &port.TextExtractionOutput{
		Text:         text,
		DocumentType: ocr.ClassifyText(text),
		Language:     ocr.DetectLanguage(text),
		Success:      true,
	}
}

func failedOutput(msg string) *port.TextExtractionOutput {
	return &port.TextExtractionOutput{
		DocumentType: domain.DocumentTypeGeneric,
		Language:     ocr.LanguageEnglish,
		Success:      false,
		Error:        msg,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
