// Package workflow defines the Temporal orchestration for stage runs.
// Workflow code is deterministic: all I/O, LLM calls, and storage mutations
// happen inside the batch activity.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/hithonix/hireflow/internal/batch"
	"github.com/hithonix/hireflow/internal/domain"
)

// StageRunRequest starts one batch run over a stage's intake queues.
type StageRunRequest struct {
	Stage domain.Stage `json:"stage"`

	// RunID scopes idempotency for the run. Empty means the workflow run
	// id is used, so a re-executed workflow gets a fresh run while a
	// replayed one keeps its identity.
	RunID string `json:"run_id"`
}

// StageRunWorkflow executes one evaluation batch for a stage and returns
// its summary. The single activity does all the work; the workflow
// contributes identity, retry policy, and a stable run id.
func StageRunWorkflow(ctx workflow.Context, req StageRunRequest) (*domain.BatchSummary, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "stage-run.v", workflow.DefaultVersion, currentVersion)

	if !domain.EvaluationStage(req.Stage) {
		return nil, temporal.NewNonRetryableApplicationError(
			"stage has no batch pipeline",
			"Validation",
			nil,
		)
	}

	runID := req.RunID
	if runID == "" {
		runID = workflow.GetInfo(ctx).WorkflowExecution.RunID
	}

	// The activity is long-running (one LLM call per candidate) and
	// heartbeats after every candidate. Retries are capped: candidate-level
	// failures are contained in the summary, so an activity-level retry
	// only covers infrastructure failures before the run starts.
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		HeartbeatTimeout:    5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var activities *batch.Activities
	var summary *domain.BatchSummary
	err := workflow.ExecuteActivity(ctx, activities.RunEvaluationBatch, batch.RunStageInput{
		Stage: req.Stage,
		RunID: runID,
	}).Get(ctx, &summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
