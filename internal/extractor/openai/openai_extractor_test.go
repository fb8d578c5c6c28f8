package openai_test

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
	"propintel/internal/extractor/openai"
	"propintel/internal/port"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:          "openai",
		APIKey:            "test-api-key",
		DefaultModel:      "gpt-4o",
		TimeoutSecs:       30,
		RequestsPerSecond: 100,
		Burst:             10,
	}
	return openai.NewExtractorWithEndpoint(cfg, serverURL)
}

func titleInput() port.FieldExtractionInput {
	return port.FieldExtractionInput{
		Text:         "Certificate of Title No. 88 issued under the Registration of Title Act",
		DocumentType: domain.DocumentTypeTitleCertificate,
	}
}

func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{"total_tokens": 640},
	}
}

func TestOpenAIExtractor_Success(t *testing.T) {
	responseBody := chatResponse(`{
		"certificate-number": "88",
		"address": "12 Galle Road, Colombo 03",
		"owner": "W. Fernando",
		"extent": "15.2 perches",
		"title-nature": "freehold",
		"encumbrances": "Not specified",
		"issue-date": "01-07-1998"
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, float64(8192), reqBody["max_completion_tokens"])

		respFormat := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", respFormat["type"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		content := msg["content"].([]interface{})
		assert.Len(t, content, 2)
		promptBlock := content[0].(map[string]interface{})
		assert.Contains(t, promptBlock["text"], "certificate of title")
		textBlock := content[1].(map[string]interface{})
		assert.Contains(t, textBlock["text"], "Certificate of Title No. 88")

		w.WriteHeader(http.StatusOK)
		err = json.NewEncoder(w).Encode(responseBody)
		if err != nil {
			return
		}
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), titleInput())

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "gpt-4o", out.Model)
	assert.Equal(t, 640, out.TokensUsed)
	assert.Equal(t, "88", out.Fields.Value("certificate-number"))
	assert.Equal(t, "freehold", out.Fields.Value("title-nature"))
	assert.False(t, out.Fields.IsFilled("encumbrances"))
}

func TestOpenAIExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"tokens","message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), titleInput())

	assert.Nil(t, out)
	var rl *extractor.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "openai", rl.Provider)
	assert.Contains(t, err.Error(), "openai API error (status 429)")
}

func TestOpenAIExtractor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), titleInput())

	var unavailable *extractor.ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "status 502")
}

func TestOpenAIExtractor_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{},
		})
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	out, err := e.ExtractFields(context.Background(), titleInput())

	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIExtractor_TruncatedOutput(t *testing.T) {
	responseBody := chatResponse(`{"certificate-number": "8`)
	responseBody["choices"].([]map[string]interface{})[0]["finish_reason"] = "length"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), titleInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "output truncated")
}

func TestOpenAIExtractor_MalformedModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(chatResponse("I could not find any fields."))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.ExtractFields(context.Background(), titleInput())

	var malformed *extractor.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "openai", malformed.Provider)
}

func TestOpenAIExtractor_ConnectionRefused(t *testing.T) {
	e := newTestExtractor("http://localhost:1")

	_, err := e.ExtractFields(context.Background(), titleInput())

	var unavailable *extractor.ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "calling openai API")
}
