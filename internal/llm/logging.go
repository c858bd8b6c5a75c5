package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Metrics collects observability data for reasoning-service calls.
type Metrics interface {
	IncrementCounter(name string, tags map[string]string, value float64)
	RecordHistogram(name string, tags map[string]string, value float64)
}

// NoOpMetrics discards all metrics. Used in tests and when no collector is
// wired.
type NoOpMetrics struct{}

func (NoOpMetrics) IncrementCounter(string, map[string]string, float64) {}
func (NoOpMetrics) RecordHistogram(string, map[string]string, float64)  {}

// LoggingClient wraps a Client with structured logging and metrics. Prompts
// are never logged, only their lengths; evaluation prompts contain candidate
// documents.
type LoggingClient struct {
	next    Client
	logger  *slog.Logger
	metrics Metrics
	model   string
}

// NewLoggingClient wraps next with request/response logging.
func NewLoggingClient(next Client, logger *slog.Logger, metrics Metrics, model string) *LoggingClient {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &LoggingClient{next: next, logger: logger, metrics: metrics, model: model}
}

// Complete delegates to the wrapped client, logging start, completion, and
// failure with a per-request id.
func (c *LoggingClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	requestID := uuid.New().String()
	model := req.Model
	if model == "" {
		model = c.model
	}
	tags := map[string]string{"model": model}

	c.logger.Info("reasoning request started",
		"request_id", requestID,
		"model", model,
		"prompt_length", len(req.UserPrompt),
		"system_prompt_length", len(req.SystemPrompt),
	)
	c.metrics.IncrementCounter("reasoning_requests_total", tags, 1)

	start := time.Now()
	resp, err := c.next.Complete(ctx, req)
	duration := time.Since(start)

	c.metrics.RecordHistogram("reasoning_request_duration_seconds", tags, duration.Seconds())

	if err != nil {
		c.metrics.IncrementCounter("reasoning_requests_failed_total", tags, 1)
		c.logger.Error("reasoning request failed",
			"request_id", requestID,
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	c.metrics.RecordHistogram("reasoning_tokens_total", tags, float64(resp.Usage.TotalTokens))
	c.logger.Info("reasoning request completed",
		"request_id", requestID,
		"model", model,
		"duration_ms", duration.Milliseconds(),
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"provider_request_id", resp.ProviderRequestID,
		"response_length", len(resp.Content),
	)
	return resp, nil
}
