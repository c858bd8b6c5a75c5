// Package router persists a candidate's decision: status and result JSON
// writes into the candidate folder, and a folder move for outcomes that
// advance the candidate to the next stage. Collaborator write failures are
// logged and swallowed here; the pipeline's own decision must survive a
// failed notification or move.
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/storage"
)

// StatusRecord is the per-stage status file written into every processed
// candidate's folder.
type StatusRecord struct {
	Status        string `json:"status"`
	Detail        string `json:"detail"`
	UpdatedAt     string `json:"updated_at"`
	CorrelationID string `json:"correlation_id"`
}

// ResultRecord is the per-stage evaluation result file. Written only when
// an evaluation actually ran; gated candidates get a status file alone.
// The score key differs by stage: overall_score in l1_result.json,
// final_score in l2_result.json.
type ResultRecord struct {
	OverallScore           float64  `json:"overall_score"`
	Strengths              []string `json:"strengths"`
	Risks                  []string `json:"risks"`
	Recommendation         string   `json:"recommendation"`
	PipelineRecommendation string   `json:"pipeline_recommendation"`
	Rationale              string   `json:"rationale"`
	StructuredEvaluation   any      `json:"structured_evaluation"`
}

// l2ResultRecord is the L2 serialization of ResultRecord, naming the score
// final_score to match the second-stage artifact schema.
type l2ResultRecord struct {
	FinalScore             float64  `json:"final_score"`
	Strengths              []string `json:"strengths"`
	Risks                  []string `json:"risks"`
	Recommendation         string   `json:"recommendation"`
	PipelineRecommendation string   `json:"pipeline_recommendation"`
	Rationale              string   `json:"rationale"`
	StructuredEvaluation   any      `json:"structured_evaluation"`
}

// resultPayload picks the stage's wire form for a result record.
func resultPayload(stage domain.Stage, r *ResultRecord) any {
	if stage != domain.StageL2 {
		return r
	}
	return l2ResultRecord{
		FinalScore:             r.OverallScore,
		Strengths:              r.Strengths,
		Risks:                  r.Risks,
		Recommendation:         r.Recommendation,
		PipelineRecommendation: r.PipelineRecommendation,
		Rationale:              r.Rationale,
		StructuredEvaluation:   r.StructuredEvaluation,
	}
}

// Router maps decisions to persistence actions.
type Router struct {
	store    storage.DocumentStore
	resolver storage.LocationResolver
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a router over the document store and location resolver.
func New(store storage.DocumentStore, resolver storage.LocationResolver, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{store: store, resolver: resolver, logger: logger, now: time.Now}
}

// StatusFilename returns the stage's status file name.
func StatusFilename(stage domain.Stage) string {
	if stage == domain.StageL2 {
		return "l2_status.json"
	}
	return "l1_status.json"
}

// ResultFilename returns the stage's result file name.
func ResultFilename(stage domain.Stage) string {
	if stage == domain.StageL2 {
		return "l2_result.json"
	}
	return "l1_result.json"
}

// destinationStage returns the stage whose folder an outcome moves the
// candidate into, or "" when the outcome keeps the candidate in place.
// Rejects and holds never move: the status and memory records carry the
// verdict, and archival of rejected folders is an operator action.
func destinationStage(o domain.Outcome) domain.Stage {
	switch o {
	case domain.OutcomeMoveToL2:
		return domain.StageL2
	case domain.OutcomeAdvanceToFinal:
		return domain.StageFinal
	default:
		return ""
	}
}

// Route persists the decision for one candidate and returns the names of
// the artifacts written, for linking into the candidate's memory event.
// Write and move failures are logged, not returned.
func (r *Router) Route(ctx context.Context, rec domain.CandidateRecord, d domain.Decision, result *ResultRecord, correlationID string) []string {
	var links []string

	detail := d.Reason
	if label := domain.HoldLabel(d.Outcome); label != "" {
		detail = label + ": " + d.Reason
	}
	status := StatusRecord{
		Status:        string(d.Outcome),
		Detail:        detail,
		UpdatedAt:     r.now().UTC().Format(time.RFC3339),
		CorrelationID: correlationID,
	}
	statusFile := StatusFilename(rec.Stage)
	if err := r.store.WriteJSON(ctx, rec.FolderID, statusFile, status); err != nil {
		r.logger.Error("status write failed",
			"candidate", rec.Name, "folder_id", rec.FolderID, "error", err)
	} else {
		links = append(links, statusFile)
	}

	if result != nil {
		resultFile := ResultFilename(rec.Stage)
		if err := r.store.WriteJSON(ctx, rec.FolderID, resultFile, resultPayload(rec.Stage, result)); err != nil {
			r.logger.Error("result write failed",
				"candidate", rec.Name, "folder_id", rec.FolderID, "error", err)
		} else {
			links = append(links, resultFile)
		}
	}

	if dest := destinationStage(d.Outcome); dest != "" {
		r.move(ctx, rec, dest)
	}
	return links
}

func (r *Router) move(ctx context.Context, rec domain.CandidateRecord, dest domain.Stage) {
	target := r.resolver.RoleToFolder(dest, rec.Role)
	if target == "" {
		// Unconfigured role for this stage. A move would need a target that
		// does not exist; the candidate stays put and an operator fixes the
		// mapping.
		r.logger.Error("no folder configured for role, leaving candidate in place",
			"candidate", rec.Name, "role", rec.Role, "stage", string(dest),
			"error", domain.ErrMissingLocation)
		return
	}
	if err := r.store.Move(ctx, rec.FolderID, target); err != nil {
		r.logger.Error("candidate folder move failed",
			"candidate", rec.Name, "folder_id", rec.FolderID, "target", target, "error", err)
	}
}
