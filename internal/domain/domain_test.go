package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeClassification(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		hold     bool
		terminal bool
	}{
		{OutcomeMoveToL2, false, true},
		{OutcomeRejectAtL1, false, true},
		{OutcomeAdvanceToFinal, false, true},
		{OutcomeRejectAtL2, false, true},
		{OutcomeHoldManualReview, true, false},
		{OutcomeHoldExecReview, true, false},
		{OutcomeHoldDataIncomplete, true, false},
		{OutcomeHoldMissingTranscript, true, false},
		{OutcomeHoldCapacity, true, false},
		{OutcomeSkipNoMaterial, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.hold, tt.outcome.IsHold())
			assert.Equal(t, tt.terminal, tt.outcome.IsTerminal())
		})
	}
}

func TestHoldReasonFor(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    HoldReason
	}{
		{OutcomeHoldManualReview, HoldReasonManualReview},
		{OutcomeHoldExecReview, HoldReasonManualReview},
		{OutcomeHoldCapacity, HoldReasonCapacityBackup},
		{OutcomeHoldDataIncomplete, HoldReasonMissingInfo},
		{OutcomeHoldMissingTranscript, HoldReasonMissingInfo},
		{OutcomeSkipNoMaterial, HoldReasonMissingInfo},
		{OutcomeMoveToL2, ""},
		{OutcomeRejectAtL2, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.want, HoldReasonFor(tt.outcome))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Priya Sharma", "priya-sharma"},
		{"extra whitespace", "  Senior   Backend  Engineer ", "senior-backend-engineer"},
		{"already normalized", "arun-mehta", "arun-mehta"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestL1EvaluationValidate(t *testing.T) {
	valid := L1Evaluation{
		MatchSummary:  "Strong backend profile",
		FitScore:      82,
		FinalDecision: "move_to_l2",
	}
	require.NoError(t, valid.Validate())
	assert.InDelta(t, 0.82, valid.Overall(), 1e-9)

	missing := valid
	missing.MatchSummary = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEvaluation))

	outOfRange := valid
	outOfRange.FitScore = 140
	assert.Error(t, outOfRange.Validate())
}

func TestL1EvaluationNotesOrder(t *testing.T) {
	e := L1Evaluation{
		RedFlags:  []string{"hard block on integrity"},
		RiskFlags: []string{"notice period unclear"},
		Concerns:  []string{"missing transcript for L1"},
	}
	assert.Equal(t, []string{
		"hard block on integrity",
		"notice period unclear",
		"missing transcript for L1",
	}, e.Notes())
}

func TestL2EvaluationValidate(t *testing.T) {
	valid := L2Evaluation{
		FinalScore:          85,
		FinalRecommendation: "hire",
		Rationale:           "Consistent depth across system design and leadership.",
	}
	require.NoError(t, valid.Validate())
	assert.InDelta(t, 0.85, valid.Overall(), 1e-9)

	missing := valid
	missing.Rationale = ""
	assert.Error(t, missing.Validate())
}

func TestNormalizationReportHasAnyMaterial(t *testing.T) {
	var empty NormalizationReport
	assert.False(t, empty.HasAnyMaterial())

	onlyFeedback := NormalizationReport{Feedback: &DocumentRef{ID: "f1", Name: "feedback.txt"}}
	assert.False(t, onlyFeedback.HasAnyMaterial())

	withResume := NormalizationReport{Resume: &DocumentRef{ID: "r1", Name: "resume.pdf"}}
	assert.True(t, withResume.HasAnyMaterial())
}

func TestBatchSummaryAccounting(t *testing.T) {
	s := &BatchSummary{RunID: "run-1", Stage: StageL1}

	s.RecordEvaluated(CandidateRow{Candidate: "a", Outcome: OutcomeMoveToL2, Score: 0.8})
	s.RecordEvaluated(CandidateRow{Candidate: "b", Outcome: OutcomeRejectAtL1, Score: 0.3})
	s.RecordEvaluated(CandidateRow{Candidate: "c", Outcome: OutcomeHoldCapacity, Score: 0.9})
	s.RecordGated(CandidateRow{Candidate: "d", Outcome: OutcomeHoldMissingTranscript})
	s.RecordGated(CandidateRow{Candidate: "e", Outcome: OutcomeSkipNoMaterial})
	s.RecordError(BatchError{Candidate: "f", Code: "evaluation_failed", Message: "boom"})

	require.NoError(t, s.CheckInvariant())
	assert.Equal(t, 6, s.TotalSeen)
	assert.Equal(t, 3, s.Evaluated)
	assert.Equal(t, 2, s.Gated)
	assert.Equal(t, 1, s.Advanced)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 2, s.Held)
	assert.Equal(t, 1, s.BackupPool)
	assert.Equal(t, 1, s.MissingTranscript)
	assert.Equal(t, 1, s.SkippedNoMaterial)
	assert.Len(t, s.Errors, 1)
}

func TestProfileStatusFor(t *testing.T) {
	assert.Equal(t, ProfileShortlisted, ProfileStatusFor(OutcomeAdvanceToFinal))
	assert.Equal(t, ProfileRejected, ProfileStatusFor(OutcomeRejectAtL1))
	assert.Equal(t, ProfileRejected, ProfileStatusFor(OutcomeRejectAtL2))
	assert.Equal(t, ProfileOnHold, ProfileStatusFor(OutcomeHoldCapacity))
	assert.Equal(t, ProfileUnknown, ProfileStatusFor(OutcomeMoveToL2))
}

func TestBatchSummaryInvariantViolation(t *testing.T) {
	s := &BatchSummary{TotalSeen: 3, Evaluated: 1}
	assert.Error(t, s.CheckInvariant())
}

func TestBatchSummaryLoggingFieldsTruncatesErrors(t *testing.T) {
	s := &BatchSummary{RunID: "run-9", Stage: StageL2}
	for i := 0; i < 8; i++ {
		s.RecordError(BatchError{Candidate: "cand", Code: "evaluation_failed", Message: "boom"})
	}

	fields := s.ToLoggingFields()
	joined := ""
	for i := 1; i < len(fields); i += 2 {
		if v, ok := fields[i].(string); ok {
			joined += v + "\n"
		}
	}
	assert.Contains(t, joined, "…and 3 more")
}
