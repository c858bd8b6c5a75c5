// Package llm provides the client for the external reasoning service.
// The pipeline sees one small interface: send a prompt, get the raw
// completion text back. Schema validation of that text lives with the
// evaluation requester, not here.
package llm

import (
	"context"
	"time"
)

// Request carries one completion request to the reasoning service.
type Request struct {
	// SystemPrompt sets the evaluator persona. Optional.
	SystemPrompt string

	// UserPrompt is the assembled evaluation prompt.
	UserPrompt string

	// Model overrides the client's configured model when non-empty.
	Model string

	MaxTokens   int
	Temperature float64

	// IdempotencyKey deduplicates retried deliveries provider-side.
	IdempotencyKey string
}

// Usage reports token consumption for one request.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Response is the normalized provider reply.
type Response struct {
	// Content is the raw completion text. May or may not be valid JSON;
	// the caller validates.
	Content string

	// FinishReason is the provider's stop reason ("stop", "length", ...).
	FinishReason string

	// ProviderRequestID is the provider-side id for support escalation.
	ProviderRequestID string

	Usage   Usage
	Latency time.Duration
}

// Truncated reports whether the completion hit the token limit, which
// usually means the JSON payload is cut off mid-object.
func (r *Response) Truncated() bool { return r.FinishReason == "length" }

// Client invokes the reasoning service once per call. Implementations
// perform no retries; retry policy belongs to the caller.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

func (f ClientFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
