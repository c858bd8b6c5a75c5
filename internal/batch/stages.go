package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/memory"
	"github.com/hithonix/hireflow/internal/policy"
	"github.com/hithonix/hireflow/internal/router"
)

const (
	agentL1 = "l1-screener"
	agentL2 = "l2-assessor"
)

// runL1 evaluates one candidate at the screening stage and applies the L1
// decision rules plus the capacity limiter.
func (p *Processor) runL1(ctx context.Context, runID string, rec domain.CandidateRecord, inputs domain.EvaluationInputs, summary *domain.BatchSummary) {
	key := idempotencyKey(runID, rec)
	eval, err := p.requester.EvaluateL1(ctx, inputs, key)
	if err != nil {
		p.recordError(ctx, summary, rec, evaluationErrorCode(err), err)
		return
	}

	decision := policy.DecideL1(eval)
	decision = p.cfg.Limiter.Apply(decision, summary.Evaluated, summary.Advanced)

	scores := policy.L1ScoresFrom(eval)
	links := []string{router.StatusFilename(rec.Stage), router.ResultFilename(rec.Stage)}

	p.recordMemory(ctx, runID, rec, decision, scores.Overall, eval.MatchSummary, eval.Strengths, eval.Concerns, inputs, links, agentL1)

	roleKey := domain.NormalizeKey(rec.Role)
	if seeded, err := p.memory.SeedRoleProfile(ctx, memory.RoleProfileFromL1(roleKey, rec.Role, eval)); err != nil {
		p.logger.Error("role profile seed failed", "role", rec.Role, "error", err)
	} else if seeded {
		p.logger.Info("role profile seeded from first evaluation", "role", rec.Role)
	}

	result := &router.ResultRecord{
		OverallScore:           scores.Overall,
		Strengths:              eval.Strengths,
		Risks:                  eval.Notes(),
		Recommendation:         eval.FinalDecision,
		PipelineRecommendation: string(decision.Outcome),
		Rationale:              eval.MatchSummary,
		StructuredEvaluation:   eval,
	}
	p.finishEvaluated(ctx, runID, rec, decision, scores.Overall, result, summary)
}

// runL2 evaluates one candidate at the deep-assessment stage. Terminal L2
// outcomes also write the final decision record.
func (p *Processor) runL2(ctx context.Context, runID string, rec domain.CandidateRecord, inputs domain.EvaluationInputs, summary *domain.BatchSummary) {
	key := idempotencyKey(runID, rec)
	eval, err := p.requester.EvaluateL2(ctx, inputs, key)
	if err != nil {
		p.recordError(ctx, summary, rec, evaluationErrorCode(err), err)
		return
	}

	decision := policy.DecideL2(eval)
	scores := policy.L2ScoresFrom(eval)
	links := []string{router.StatusFilename(rec.Stage), router.ResultFilename(rec.Stage)}

	p.recordMemory(ctx, runID, rec, decision, scores.Overall, eval.L2Summary, eval.Strengths, eval.Concerns, inputs, links, agentL2)
	p.recordFinalDecision(ctx, rec, decision)

	result := &router.ResultRecord{
		OverallScore:           scores.Overall,
		Strengths:              eval.Strengths,
		Risks:                  eval.Notes(),
		Recommendation:         eval.FinalRecommendation,
		PipelineRecommendation: string(decision.Outcome),
		Rationale:              eval.Rationale,
		StructuredEvaluation:   eval,
	}
	p.finishEvaluated(ctx, runID, rec, decision, scores.Overall, result, summary)
}

// recordMemory writes the candidate profile and appends the evaluation event.
// Memory failures are logged, never fatal: the decision still routes.
func (p *Processor) recordMemory(
	ctx context.Context,
	runID string,
	rec domain.CandidateRecord,
	decision domain.Decision,
	score float64,
	eventSummary string,
	strengths, weaknesses []string,
	inputs domain.EvaluationInputs,
	links []string,
	agent string,
) {
	candidateKey := domain.NormalizeKey(rec.Name)
	roleKey := domain.NormalizeKey(rec.Role)

	profile := &domain.CandidateProfile{
		CandidateKey:  candidateKey,
		CandidateName: rec.Name,
		RoleKey:       roleKey,
		RoleName:      rec.Role,
		Strengths:     strengths,
		Weaknesses:    weaknesses,
		Status:        domain.ProfileStatusFor(decision.Outcome),
		LastStage:     rec.Stage,
		LastOutcome:   decision.Outcome,
	}
	if err := p.memory.UpsertProfile(ctx, profile); err != nil {
		p.logger.Error("profile upsert failed", "candidate", rec.Name, "error", err)
	}

	event := &domain.CandidateEvent{
		RunID:        runID,
		CandidateKey: candidateKey,
		RoleKey:      roleKey,
		Stage:        rec.Stage,
		Outcome:      decision.Outcome,
		Agent:        agent,
		Score:        score,
		Confidence:   score,
		HoldReason:   decision.HoldReason,
		Summary:      eventSummary,
		InputsHash:   memory.InputsHash(inputs),
		Artifacts:    links,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := p.memory.AppendEvent(ctx, event); err != nil {
		p.logger.Error("event append failed", "candidate", rec.Name, "error", err)
	}
}

// recordFinalDecision persists the terminal verdict for L2 outcomes that end
// the pipeline.
func (p *Processor) recordFinalDecision(ctx context.Context, rec domain.CandidateRecord, decision domain.Decision) {
	var final *domain.FinalDecisionRecord
	switch decision.Outcome {
	case domain.OutcomeAdvanceToFinal:
		final = &domain.FinalDecisionRecord{
			Decision:   domain.FinalDecisionHire,
			NextAction: domain.NextActionOffer,
		}
	case domain.OutcomeRejectAtL2:
		final = &domain.FinalDecisionRecord{
			Decision:   domain.FinalDecisionReject,
			NextAction: domain.NextActionFeedback,
		}
	default:
		return
	}
	final.CandidateKey = domain.NormalizeKey(rec.Name)
	final.RoleKey = domain.NormalizeKey(rec.Role)
	final.DecidedAt = time.Now().UTC()
	if err := p.memory.UpsertFinalDecision(ctx, final); err != nil {
		p.logger.Error("final decision upsert failed", "candidate", rec.Name, "error", err)
	}
}

// finishEvaluated routes the decision and accounts the candidate as
// evaluated.
func (p *Processor) finishEvaluated(
	ctx context.Context,
	runID string,
	rec domain.CandidateRecord,
	decision domain.Decision,
	score float64,
	result *router.ResultRecord,
	summary *domain.BatchSummary,
) {
	links := p.router.Route(ctx, rec, decision, result, runID)

	row := domain.CandidateRow{
		Candidate:  rec.Name,
		Role:       rec.Role,
		Outcome:    decision.Outcome,
		Score:      score,
		Detail:     decision.Reason,
		HoldLabel:  domain.HoldLabel(decision.Outcome),
		HoldReason: decision.HoldReason,
		Links:      links,
	}
	summary.RecordEvaluated(row)
	p.metrics.RecordOutcome(rec.Stage, decision.Outcome)
	if p.hooks.OnRow != nil {
		p.hooks.OnRow(ctx, runID, rec.Stage, row)
	}
}

// idempotencyKey scopes one LLM request per candidate per stage per run.
func idempotencyKey(runID string, rec domain.CandidateRecord) string {
	return fmt.Sprintf("%s:%s:%s", runID, domain.NormalizeKey(rec.Name), rec.Stage)
}
