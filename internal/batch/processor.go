package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/evaluation"
	"github.com/hithonix/hireflow/internal/gate"
	"github.com/hithonix/hireflow/internal/memory"
	"github.com/hithonix/hireflow/internal/policy"
	"github.com/hithonix/hireflow/internal/router"
	"github.com/hithonix/hireflow/internal/storage"
)

// MetricsRecorder counts outcomes and errors for monitoring. Implementations
// must be safe for concurrent use.
type MetricsRecorder interface {
	RecordOutcome(stage domain.Stage, outcome domain.Outcome)
	RecordBatchError(code string)
}

// NopMetrics discards all recordings.
type NopMetrics struct{}

func (NopMetrics) RecordOutcome(domain.Stage, domain.Outcome) {}
func (NopMetrics) RecordBatchError(string)                    {}

// Hooks observe per-candidate progress. Used by the activity layer for event
// emission and heartbeats; both are optional.
type Hooks struct {
	OnRow   func(ctx context.Context, runID string, stage domain.Stage, row domain.CandidateRow)
	OnGated func(ctx context.Context, runID string, stage domain.Stage, row domain.CandidateRow)
	OnError func(ctx context.Context, runID string, stage domain.Stage, batchErr domain.BatchError)
}

// Config carries the processor's tunables.
type Config struct {
	// Roles are the role names whose intake folders each run scans.
	Roles []string

	// Limiter caps automatic L1 passes. The zero value uses policy
	// defaults.
	Limiter policy.CapacityLimiter
}

// Processor runs the per-candidate pipeline for one stage across all
// configured roles. Processing is sequential: each candidate's full pipeline
// completes before the next starts, which the capacity limiter's running
// counters rely on.
type Processor struct {
	cfg       Config
	docs      storage.DocumentStore
	extractor storage.TextExtractor
	resolver  storage.LocationResolver
	router    *router.Router
	requester *evaluation.Requester
	memory    memory.Store
	assembler *memory.Assembler
	metrics   MetricsRecorder
	hooks     Hooks
	logger    *slog.Logger
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(
	cfg Config,
	docs storage.DocumentStore,
	extractor storage.TextExtractor,
	resolver storage.LocationResolver,
	rt *router.Router,
	requester *evaluation.Requester,
	store memory.Store,
	metrics MetricsRecorder,
	hooks Hooks,
	logger *slog.Logger,
) *Processor {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		docs:      docs,
		extractor: extractor,
		resolver:  resolver,
		router:    rt,
		requester: requester,
		memory:    store,
		assembler: memory.NewAssembler(store),
		metrics:   metrics,
		hooks:     hooks,
		logger:    logger,
	}
}

// Run executes one batch run for a stage and returns its summary. The run
// always completes: per-candidate failures are recorded, never propagated.
// Only L1 and L2 are runnable stages.
func (p *Processor) Run(ctx context.Context, stage domain.Stage, runID string) (*domain.BatchSummary, error) {
	if !domain.EvaluationStage(stage) {
		return nil, fmt.Errorf("stage %s has no batch pipeline", stage)
	}

	summary := &domain.BatchSummary{RunID: runID, Stage: stage}

	for _, role := range p.cfg.Roles {
		intake := p.resolver.RoleToFolder(stage, role)
		if intake == "" {
			// Unconfigured role. Nothing to scan; an operator fixes the
			// mapping.
			p.logger.Error("no intake folder configured for role",
				"role", role, "stage", string(stage), "error", domain.ErrMissingLocation)
			continue
		}

		folders, err := p.docs.ListFolders(ctx, intake)
		if err != nil {
			p.logger.Error("intake listing failed, skipping role",
				"role", role, "stage", string(stage), "error", err)
			continue
		}

		for _, folder := range folders {
			rec := domain.CandidateRecord{
				FolderID: folder.ID,
				Name:     folder.Name,
				Role:     role,
				Stage:    stage,
			}
			p.processCandidate(ctx, runID, rec, summary)
		}
	}

	if err := summary.CheckInvariant(); err != nil {
		// Accounting bug, not a data problem. The summary still ships.
		p.logger.Error("batch summary invariant violated", "error", err)
	}
	p.logger.Info("batch run completed", summary.ToLoggingFields()...)
	return summary, nil
}

// processCandidate runs the full pipeline for one candidate. Panics are
// contained here so one candidate cannot take down the batch.
func (p *Processor) processCandidate(ctx context.Context, runID string, rec domain.CandidateRecord, summary *domain.BatchSummary) {
	defer func() {
		if r := recover(); r != nil {
			p.recordError(ctx, summary, rec, ErrCodePanic, fmt.Errorf("panic: %v", r))
		}
	}()

	listing, err := p.docs.ListFiles(ctx, rec.FolderID)
	if err != nil {
		p.recordError(ctx, summary, rec, ErrCodeDocumentIO, err)
		return
	}
	report, err := storage.LoadNormalizationReport(ctx, p.docs, rec.FolderID, rec.Stage)
	if err != nil {
		p.recordError(ctx, summary, rec, ErrCodeDocumentIO, err)
		return
	}

	verdict := gate.Check(report, listing, rec.Stage)
	if !verdict.Proceed {
		p.recordGated(ctx, runID, rec, verdict, summary)
		return
	}

	inputs, err := p.collectInputs(ctx, report, verdict.Transcript)
	if err != nil {
		p.recordError(ctx, summary, rec, ErrCodeDocumentIO, err)
		return
	}

	candidateKey := domain.NormalizeKey(rec.Name)
	roleKey := domain.NormalizeKey(rec.Role)

	memoryContext, err := p.assembler.BuildContext(ctx, candidateKey, roleKey)
	if err != nil {
		// Memory is advisory at read time; evaluate without it.
		p.logger.Error("memory context assembly failed, evaluating without context",
			"candidate", rec.Name, "error", err)
		memoryContext = ""
	}
	inputs.MemoryContext = memoryContext

	switch rec.Stage {
	case domain.StageL1:
		p.runL1(ctx, runID, rec, inputs, summary)
	case domain.StageL2:
		p.runL2(ctx, runID, rec, inputs, summary)
	}
}

// collectInputs downloads and extracts the text of each gated-in document.
// The transcript comes from the gate's resolution; resume/jd/feedback come
// from the normalization report.
func (p *Processor) collectInputs(ctx context.Context, report *domain.NormalizationReport, transcript domain.DocumentRef) (domain.EvaluationInputs, error) {
	var in domain.EvaluationInputs
	var err error

	if in.ResumeText, err = p.readText(ctx, report.Resume); err != nil {
		return in, fmt.Errorf("resume: %w", err)
	}
	if in.JDText, err = p.readText(ctx, report.JD); err != nil {
		return in, fmt.Errorf("job description: %w", err)
	}
	if in.TranscriptText, err = p.readText(ctx, &transcript); err != nil {
		return in, fmt.Errorf("transcript: %w", err)
	}
	if in.FeedbackText, err = p.readText(ctx, report.Feedback); err != nil {
		// Feedback is optional; a broken feedback file should not block
		// the evaluation.
		p.logger.Error("feedback extraction failed, continuing without it", "error", err)
		in.FeedbackText = ""
	}
	return in, nil
}

func (p *Processor) readText(ctx context.Context, ref *domain.DocumentRef) (string, error) {
	if ref == nil || ref.IsZero() {
		return "", nil
	}
	raw, err := p.docs.DownloadBytes(ctx, ref.ID)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", ref.Name, err)
	}
	text, err := p.extractor.Extract(ctx, *ref, raw)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ref.Name, err)
	}
	return text, nil
}

// recordGated routes a gate verdict and accounts it as a hold/skip.
func (p *Processor) recordGated(ctx context.Context, runID string, rec domain.CandidateRecord, verdict gate.Verdict, summary *domain.BatchSummary) {
	decision := domain.Hold(verdict.Outcome, verdict.Detail)
	links := p.router.Route(ctx, rec, decision, nil, runID)

	row := domain.CandidateRow{
		Candidate:  rec.Name,
		Role:       rec.Role,
		Outcome:    verdict.Outcome,
		Detail:     verdict.Detail,
		HoldLabel:  domain.HoldLabel(verdict.Outcome),
		HoldReason: decision.HoldReason,
		Links:      links,
	}
	summary.RecordGated(row)
	p.metrics.RecordOutcome(rec.Stage, verdict.Outcome)
	if p.hooks.OnGated != nil {
		p.hooks.OnGated(ctx, runID, rec.Stage, row)
	}
}

// recordError accounts a per-candidate failure without stopping the batch.
func (p *Processor) recordError(ctx context.Context, summary *domain.BatchSummary, rec domain.CandidateRecord, code string, err error) {
	p.logger.Error("candidate processing failed",
		"candidate", rec.Name, "role", rec.Role, "code", code, "error", err)

	batchErr := domain.BatchError{
		Candidate: rec.Name,
		Role:      rec.Role,
		FolderID:  rec.FolderID,
		Code:      code,
		Message:   err.Error(),
	}
	summary.RecordError(batchErr)
	p.metrics.RecordBatchError(code)
	if p.hooks.OnError != nil {
		p.hooks.OnError(ctx, summary.RunID, rec.Stage, batchErr)
	}
}

// evaluationErrorCode distinguishes schema failures from transport failures.
func evaluationErrorCode(err error) string {
	if errors.Is(err, domain.ErrInvalidEvaluationResponse) {
		return ErrCodeInvalidResponse
	}
	return ErrCodeEvaluationFailed
}
