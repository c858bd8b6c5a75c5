package batch

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/hithonix/hireflow/internal/domain"
	pkgactivity "github.com/hithonix/hireflow/pkg/activity"
)

// RunStageInput is the activity input for one batch run.
type RunStageInput struct {
	Stage domain.Stage `json:"stage"`
	RunID string       `json:"run_id"`
}

// Validate checks the input before any work starts.
func (in *RunStageInput) Validate() error {
	if !domain.EvaluationStage(in.Stage) {
		return fmt.Errorf("stage %q is not an evaluation stage", in.Stage)
	}
	if in.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	return nil
}

// Activities exposes the batch processor as Temporal activities.
type Activities struct {
	pkgactivity.BaseActivities

	processor *Processor
	emitter   *EventEmitter
	summaries SummaryStore
}

// NewActivities wires the processor into the Temporal activity surface.
// The processor's hooks are taken over for heartbeats and event emission.
func NewActivities(base pkgactivity.BaseActivities, processor *Processor, summaries SummaryStore) *Activities {
	a := &Activities{
		BaseActivities: base,
		processor:      processor,
		emitter:        NewEventEmitter(base),
		summaries:      summaries,
	}
	processor.hooks = Hooks{
		OnRow:   a.onRow,
		OnGated: a.onGated,
		OnError: a.onError,
	}
	return a
}

// RunEvaluationBatch runs one full stage batch and returns its summary.
// Per-candidate failures are contained inside the summary; only input
// validation and summary publication can fail the activity, and those are
// non-retryable because a retry would re-evaluate every candidate.
func (a *Activities) RunEvaluationBatch(ctx context.Context, input RunStageInput) (*domain.BatchSummary, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("RunEvaluationBatch", err, "invalid input")
	}

	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "starting evaluation batch",
		"workflow_id", wfCtx.WorkflowID,
		"activity_id", wfCtx.ActivityID,
		"stage", string(input.Stage),
		"run_id", input.RunID)

	summary, err := a.processor.Run(ctx, input.Stage, input.RunID)
	if err != nil {
		return nil, nonRetryable("RunEvaluationBatch", err, "batch run failed")
	}

	if err := a.summaries.Publish(summary); err != nil {
		// A frozen summary means this run already published; the duplicate
		// result is returned as-is so the workflow can continue.
		pkgactivity.SafeLogError(ctx, "summary already published for run",
			"run_id", input.RunID, "error", err)
	}

	a.emitter.EmitBatchCompleted(ctx, wfCtx, summary)

	pkgactivity.SafeLog(ctx, "evaluation batch completed", summary.ToLoggingFields()...)
	return summary, nil
}

func (a *Activities) onRow(ctx context.Context, runID string, stage domain.Stage, row domain.CandidateRow) {
	a.RecordHeartbeat(ctx, fmt.Sprintf("evaluated %s", row.Candidate))
	a.emitter.EmitCandidateEvaluated(ctx, a.GetWorkflowContext(ctx), runID, stage, row)
}

func (a *Activities) onGated(ctx context.Context, runID string, stage domain.Stage, row domain.CandidateRow) {
	a.RecordHeartbeat(ctx, fmt.Sprintf("gated %s", row.Candidate))
	a.emitter.EmitCandidateGated(ctx, a.GetWorkflowContext(ctx), runID, stage, row)
}

func (a *Activities) onError(ctx context.Context, runID string, stage domain.Stage, batchErr domain.BatchError) {
	a.RecordHeartbeat(ctx, fmt.Sprintf("failed %s", batchErr.Candidate))
}

// nonRetryable wraps errors whose retry would repeat non-idempotent work or
// fail identically.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}
