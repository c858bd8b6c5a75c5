package batch

import (
	"context"
	"fmt"

	"github.com/hithonix/hireflow/internal/domain"
	pkgactivity "github.com/hithonix/hireflow/pkg/activity"
	"github.com/hithonix/hireflow/pkg/events"
)

const eventSource = "hireflow-batch"

// CandidateEvaluatedPayload is the body of a candidate_evaluated event.
type CandidateEvaluatedPayload struct {
	Candidate  string            `json:"candidate"`
	Role       string            `json:"role"`
	Stage      domain.Stage      `json:"stage"`
	Outcome    domain.Outcome    `json:"outcome"`
	Score      float64           `json:"score"`
	HoldReason domain.HoldReason `json:"hold_reason,omitempty"`
	Detail     string            `json:"detail,omitempty"`
}

// CandidateGatedPayload is the body of a candidate_gated event.
type CandidateGatedPayload struct {
	Candidate string         `json:"candidate"`
	Role      string         `json:"role"`
	Stage     domain.Stage   `json:"stage"`
	Outcome   domain.Outcome `json:"outcome"`
	Detail    string         `json:"detail,omitempty"`
}

// BatchCompletedPayload is the body of a batch_completed event.
type BatchCompletedPayload struct {
	RunID             string       `json:"run_id"`
	Stage             domain.Stage `json:"stage"`
	TotalSeen         int          `json:"total_seen"`
	Evaluated         int          `json:"evaluated"`
	Gated             int          `json:"gated"`
	Advanced          int          `json:"advanced"`
	Rejected          int          `json:"rejected"`
	Held              int          `json:"held"`
	SkippedNoMaterial int          `json:"skipped_no_material"`
	Errors            int          `json:"errors"`
}

// EventEmitter publishes pipeline events through the activity event
// infrastructure. Emission is best-effort: failures are logged and never
// affect the batch outcome.
type EventEmitter struct{ base pkgactivity.BaseActivities }

// NewEventEmitter creates an emitter on the shared activity base.
func NewEventEmitter(base pkgactivity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitCandidateEvaluated publishes one evaluated candidate's outcome.
func (e *EventEmitter) EmitCandidateEvaluated(ctx context.Context, wfCtx pkgactivity.WorkflowContext, runID string, stage domain.Stage, row domain.CandidateRow) {
	payload := CandidateEvaluatedPayload{
		Candidate:  row.Candidate,
		Role:       row.Role,
		Stage:      stage,
		Outcome:    row.Outcome,
		Score:      row.Score,
		HoldReason: row.HoldReason,
		Detail:     row.Detail,
	}
	e.emitCandidate(ctx, wfCtx, runID, stage, row.Candidate, events.TypeCandidateEvaluated, payload)
}

// EmitCandidateGated publishes a candidate the artifact gate held or
// skipped before evaluation.
func (e *EventEmitter) EmitCandidateGated(ctx context.Context, wfCtx pkgactivity.WorkflowContext, runID string, stage domain.Stage, row domain.CandidateRow) {
	payload := CandidateGatedPayload{
		Candidate: row.Candidate,
		Role:      row.Role,
		Stage:     stage,
		Outcome:   row.Outcome,
		Detail:    row.Detail,
	}
	e.emitCandidate(ctx, wfCtx, runID, stage, row.Candidate, events.TypeCandidateGated, payload)
}

func (e *EventEmitter) emitCandidate(ctx context.Context, wfCtx pkgactivity.WorkflowContext, runID string, stage domain.Stage, candidate, eventType string, payload any) {
	key := fmt.Sprintf("%s:%s:%s:%s", runID, domain.NormalizeKey(candidate), stage, eventType)
	envelope, err := events.NewEnvelope(eventType, eventSource, key, wfCtx.WorkflowID, runID, payload)
	if err != nil {
		pkgactivity.SafeLogError(ctx, "failed to build candidate event",
			"candidate", candidate, "error", err)
		return
	}
	e.base.EmitEventSafe(ctx, envelope, "candidate outcome")
}

// EmitBatchCompleted publishes the run's aggregate counts.
func (e *EventEmitter) EmitBatchCompleted(ctx context.Context, wfCtx pkgactivity.WorkflowContext, summary *domain.BatchSummary) {
	payload := BatchCompletedPayload{
		RunID:             summary.RunID,
		Stage:             summary.Stage,
		TotalSeen:         summary.TotalSeen,
		Evaluated:         summary.Evaluated,
		Gated:             summary.Gated,
		Advanced:          summary.Advanced,
		Rejected:          summary.Rejected,
		Held:              summary.Held,
		SkippedNoMaterial: summary.SkippedNoMaterial,
		Errors:            len(summary.Errors),
	}

	key := fmt.Sprintf("%s:%s:%s", summary.RunID, summary.Stage, events.TypeBatchCompleted)
	envelope, err := events.NewEnvelope(events.TypeBatchCompleted, eventSource, key, wfCtx.WorkflowID, summary.RunID, payload)
	if err != nil {
		pkgactivity.SafeLogError(ctx, "failed to build batch event",
			"run_id", summary.RunID, "error", err)
		return
	}
	e.base.EmitEventSafe(ctx, envelope, "batch completed")
}
