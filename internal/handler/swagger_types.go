package handler

import (
	"propintel/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"store not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"batch deleted"`
}

// BatchDetail represents a batch job with presigned archive URLs.
type BatchDetail struct {
	Batch       domain.BatchJob `json:"batch"`
	ArchiveURLs []string        `json:"archive_urls,omitempty" example:"https://s3.amazonaws.com/propintel-documents/...?X-Amz-Signature=..."`
}

// ExtractResult represents the synchronous single-document outcome.
type ExtractResult struct {
	Result domain.ScoredExtraction `json:"result"`
	Fused  domain.FusedRecord      `json:"fused"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
