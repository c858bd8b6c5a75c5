// Package events defines the envelope and sink used to publish pipeline
// events (candidate evaluated, batch completed) to downstream consumers
// such as dashboards and notification bots. Emission is always best-effort:
// a lost event never loses a decision.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the pipeline.
const (
	TypeCandidateEvaluated = "pipeline.candidate_evaluated"
	TypeCandidateGated     = "pipeline.candidate_gated"
	TypeBatchCompleted     = "pipeline.batch_completed"
)

// Envelope wraps an event payload with routing and idempotency metadata.
// Consumers dedupe on IdempotencyKey, so retried activities can re-emit
// without double counting.
type Envelope struct {
	// ID uniquely identifies this emission.
	ID string `json:"id"`

	// Type routes the event; see the Type constants.
	Type string `json:"type"`

	// Source names the emitting component, e.g. "l1-batch-activity".
	Source string `json:"source"`

	// Version of the payload schema, semver.
	Version string `json:"version"`

	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey is derived deterministically from the run, candidate,
	// and stage, so a retried emission carries the same key.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID and RunID tie the event to its Temporal execution.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload is the type-specific event body.
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope builds an envelope around a payload, marshaling it and
// stamping id, version, and timestamp.
func NewEnvelope(eventType, source, idempotencyKey, workflowID, runID string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         source,
		Version:        "1.0.0",
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
		WorkflowID:     workflowID,
		RunID:          runID,
		Payload:        body,
	}, nil
}

// EventSink receives envelopes for downstream delivery. Implementations
// must treat duplicate idempotency keys as no-ops and return quickly.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink drops every event. Used in tests and when emission is
// disabled.
type NoOpEventSink struct{}

// Append implements EventSink.
func (*NoOpEventSink) Append(context.Context, Envelope) error { return nil }

// NewNoOpEventSink creates a sink that drops everything.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }
