package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propintel/internal/config"
	"propintel/internal/domain"
	"propintel/internal/extractor"
	"propintel/internal/extractor/gemini"
	"propintel/internal/port"
)

func newTestExtractor(serverURL string) *gemini.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:          "gemini",
		APIKey:            "test-api-key",
		DefaultModel:      "gemini-2.0-flash",
		TimeoutSecs:       30,
		RequestsPerSecond: 100,
		Burst:             10,
	}
	return gemini.NewExtractorWithEndpoint(cfg, serverURL)
}

func planInput() port.FieldExtractionInput {
	return port.FieldExtractionInput{
		Text:         "Plan No. 2210 of the land surveyed on 12.03.2019 by K. Silva, Licensed Surveyor",
		DocumentType: domain.DocumentTypeSurveyPlan,
	}
}

func generateContentResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]interface{}{
			"totalTokenCount": 512,
		},
	}
}

func TestGeminiExtractor_Success(t *testing.T) {
	responseBody := generateContentResponse(`{
		"plan-number": "2210",
		"survey-date": "12-03-2019",
		"surveyor": "K. Silva",
		"boundaries": "north: road, south: canal",
		"extent": "15.2 perches",
		"subdivisions": "Lot 4",
		"coordinates": "Not specified"
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		turn := contents[0].(map[string]interface{})
		assert.Equal(t, "user", turn["role"])

		parts := turn["parts"].([]interface{})
		assert.Len(t, parts, 2)
		promptPart := parts[0].(map[string]interface{})
		assert.Contains(t, promptPart["text"], "surveyor's plan")
		textPart := parts[1].(map[string]interface{})
		assert.Contains(t, textPart["text"], "Plan No. 2210")

		genCfg := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genCfg["responseMimeType"])
		assert.Equal(t, float64(8192), genCfg["maxOutputTokens"])

		w.WriteHeader(http.StatusOK)
		err = json.NewEncoder(w).Encode(responseBody)
		if err != nil {
			return
		}
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), planInput())

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "gemini-2.0-flash", out.Model)
	assert.Equal(t, 512, out.TokensUsed)
	assert.Equal(t, "2210", out.Fields.Value("plan-number"))
	assert.Equal(t, "K. Silva", out.Fields.Value("surveyor"))
	assert.False(t, out.Fields.IsFilled("coordinates"))
}

func TestGeminiExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "40")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), planInput())

	assert.Nil(t, out)
	var rl *extractor.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "gemini", rl.Provider)
	assert.Contains(t, err.Error(), "gemini API error (status 429)")
}

func TestGeminiExtractor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), planInput())

	var unavailable *extractor.ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGeminiExtractor_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{},
		})
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), planInput())

	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiExtractor_TruncatedOutput(t *testing.T) {
	responseBody := generateContentResponse(`{"plan-number": "22`)
	responseBody["candidates"].([]map[string]interface{})[0]["finishReason"] = "MAX_TOKENS"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), planInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "output truncated")
}

func TestGeminiExtractor_MalformedModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(generateContentResponse("the plan shows four lots"))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), planInput())

	var malformed *extractor.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "gemini", malformed.Provider)
}

func TestGeminiExtractor_ConnectionRefused(t *testing.T) {
	e := newTestExtractor("http://localhost:1")

	_, err := e.ExtractFields(context.Background(), planInput())

	var unavailable *extractor.ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "calling gemini API")
}
