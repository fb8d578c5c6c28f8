package extractor

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitError indicates an extraction provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// ServiceUnavailableError indicates the extraction service could not be
// reached or refused the call (network, server error, bad credentials).
// The pipeline records it as a service_unavailable outcome for the document.
type ServiceUnavailableError struct {
	Provider string
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// NewServiceUnavailableError wraps a transport or service failure.
func NewServiceUnavailableError(provider string, err error) *ServiceUnavailableError {
	return &ServiceUnavailableError{Provider: provider, Err: err}
}

// MalformedResponseError indicates the model's response could not be parsed
// as a flat field mapping even after the normalization retry.
type MalformedResponseError struct {
	Provider string
	Raw      string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed response: %v (raw: %s)", e.Provider, e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NewMalformedResponseError wraps a parse failure, keeping a truncated copy
// of the raw response for diagnostics.
func NewMalformedResponseError(provider string, err error, raw string) *MalformedResponseError {
	return &MalformedResponseError{Provider: provider, Err: err, Raw: truncate(raw, 500)}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
