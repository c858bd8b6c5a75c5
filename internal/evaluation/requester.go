package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/llm"
)

// defaultMaxTokens bounds evaluation completions. Structured evaluations
// fit comfortably; the bound exists to catch runaway prose responses.
const defaultMaxTokens = 4000

// Requester invokes the reasoning service once per candidate per run and
// converts the raw response into a validated evaluation record. No retries
// happen here; retry policy belongs to the workflow layer.
type Requester struct {
	client llm.Client
	logger *slog.Logger
}

// NewRequester creates a requester on top of a reasoning-service client.
func NewRequester(client llm.Client, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Requester{client: client, logger: logger}
}

// EvaluateL1 runs a first-pass screening for one candidate. The
// idempotencyKey should be derived from (run, candidate, stage) so a retried
// delivery dedupes provider-side.
func (r *Requester) EvaluateL1(ctx context.Context, in domain.EvaluationInputs, idempotencyKey string) (*domain.L1Evaluation, error) {
	resp, err := r.client.Complete(ctx, &llm.Request{
		SystemPrompt:   l1SystemPrompt,
		UserPrompt:     BuildL1Prompt(in),
		MaxTokens:      defaultMaxTokens,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("L1 evaluation request: %w", err)
	}

	eval, repaired, err := ParseL1(resp.Content)
	if err != nil {
		r.logger.Error("L1 response failed validation",
			"provider_request_id", resp.ProviderRequestID,
			"truncated", resp.Truncated(),
			"error", err,
		)
		return nil, err
	}
	if repaired {
		r.logger.Warn("L1 response required JSON repair",
			"provider_request_id", resp.ProviderRequestID)
	}
	return eval, nil
}

// EvaluateL2 runs a second-pass evaluation for one candidate.
func (r *Requester) EvaluateL2(ctx context.Context, in domain.EvaluationInputs, idempotencyKey string) (*domain.L2Evaluation, error) {
	resp, err := r.client.Complete(ctx, &llm.Request{
		SystemPrompt:   l2SystemPrompt,
		UserPrompt:     BuildL2Prompt(in),
		MaxTokens:      defaultMaxTokens,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("L2 evaluation request: %w", err)
	}

	eval, repaired, err := ParseL2(resp.Content)
	if err != nil {
		r.logger.Error("L2 response failed validation",
			"provider_request_id", resp.ProviderRequestID,
			"truncated", resp.Truncated(),
			"error", err,
		)
		return nil, err
	}
	if repaired {
		r.logger.Warn("L2 response required JSON repair",
			"provider_request_id", resp.ProviderRequestID)
	}
	return eval, nil
}
