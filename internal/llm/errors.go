package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyCompletion indicates the provider returned a well-formed response
// with no content.
var ErrEmptyCompletion = errors.New("provider returned empty completion")

// ProviderError carries the provider's own error payload alongside the HTTP
// status, so callers can distinguish throttling from hard failures.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (status %d, code %q)", e.Provider, e.Message, e.StatusCode, e.Code)
}

// Retryable reports whether the failure is transient. Rate limits and
// server-side errors may succeed on a later attempt; auth and validation
// failures will not.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
