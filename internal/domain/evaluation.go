package domain

import "fmt"

// ScoreScale is the upper bound of the raw fit/final score emitted by the
// reasoning service. Raw scores are normalized to [0,1] before any policy
// threshold is applied.
const ScoreScale = 100

// L1Evaluation is the validated structured output of a first-pass screening.
// Produced at most once per (candidate, run); immutable after creation. If
// the raw response fails validation no L1Evaluation exists for the attempt.
type L1Evaluation struct {
	MatchSummary         string   `json:"match_summary" validate:"required"`
	Strengths            []string `json:"strengths"`
	Concerns             []string `json:"concerns"`
	RedFlags             []string `json:"red_flags"`
	RiskFlags            []string `json:"risk_flags"`
	BehavioralSignals    string   `json:"behavioral_signals"`
	CommunicationSignals string   `json:"communication_signals"`

	// CompensationAlignment and JoiningFeasibility are High/Medium/Low
	// labels from the screening rubric.
	CompensationAlignment string `json:"compensation_alignment"`
	JoiningFeasibility    string `json:"joining_feasibility"`

	// FitScore is the raw 0-100 score. Policy thresholds operate on the
	// normalized value; see Overall.
	FitScore int `json:"fit_score" validate:"min=0,max=100"`

	// FinalDecision is the model's own recommendation label. The decision
	// engine, not this label, determines the pipeline outcome.
	FinalDecision string `json:"final_decision" validate:"required"`
}

// Validate checks field constraints on the evaluation.
func (e *L1Evaluation) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvaluation, err)
	}
	return nil
}

// Overall returns the fit score normalized to [0,1].
func (e *L1Evaluation) Overall() float64 {
	return float64(e.FitScore) / ScoreScale
}

// Notes returns every free-text flag and concern the classifier should scan
// for risk signals: red flags, risk flags, then concerns, in that order.
func (e *L1Evaluation) Notes() []string {
	notes := make([]string, 0, len(e.RedFlags)+len(e.RiskFlags)+len(e.Concerns))
	notes = append(notes, e.RedFlags...)
	notes = append(notes, e.RiskFlags...)
	notes = append(notes, e.Concerns...)
	return notes
}

// L2Evaluation is the validated structured output of a second-pass
// evaluation. Same lifecycle as L1Evaluation.
type L2Evaluation struct {
	LeadershipAssessment string `json:"leadership_assessment"`
	TechnicalCapability  string `json:"technical_capability"`
	CommunicationDepth   string `json:"communication_depth"`
	CultureAlignment     string `json:"culture_alignment"`
	CareerPotential      string `json:"career_potential"`

	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	RiskFlags []string `json:"risk_flags"`

	// FinalScore is the raw 0-100 score; see Overall.
	FinalScore int `json:"final_score" validate:"min=0,max=100"`

	// FinalRecommendation is the model's raw label (hire, strong_yes, yes,
	// hold, reject, no, strong_no, ...). An explicit "hold" is honored by
	// the decision engine before any scoring threshold.
	FinalRecommendation string `json:"final_recommendation" validate:"required"`

	L2Summary string `json:"l2_summary"`
	Rationale string `json:"rationale" validate:"required"`
}

// Validate checks field constraints on the evaluation.
func (e *L2Evaluation) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvaluation, err)
	}
	return nil
}

// Overall returns the final score normalized to [0,1].
func (e *L2Evaluation) Overall() float64 {
	return float64(e.FinalScore) / ScoreScale
}

// Notes returns the free-text flags and concerns to scan for risk signals.
func (e *L2Evaluation) Notes() []string {
	notes := make([]string, 0, len(e.RiskFlags)+len(e.Concerns))
	notes = append(notes, e.RiskFlags...)
	notes = append(notes, e.Concerns...)
	return notes
}

// EvaluationInputs carries the extracted document text fed to the reasoning
// service for one candidate, plus the optional memory context blob.
type EvaluationInputs struct {
	ResumeText     string
	JDText         string
	TranscriptText string
	FeedbackText   string
	MemoryContext  string
}
