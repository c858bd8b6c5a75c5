package domain

import "fmt"

// errorDisplayLimit caps how many per-candidate errors a summary line prints
// before collapsing the remainder into a count.
const errorDisplayLimit = 5

// CandidateRow is the per-candidate line item in a batch summary.
type CandidateRow struct {
	Candidate  string     `json:"candidate"`
	Role       string     `json:"role"`
	Outcome    Outcome    `json:"outcome"`
	Score      float64    `json:"score"`
	Detail     string     `json:"detail,omitempty"`
	HoldLabel  string     `json:"hold_label,omitempty"`
	HoldReason HoldReason `json:"hold_reason,omitempty"`
	Links      []string   `json:"links,omitempty"`
}

// BatchError records a per-candidate failure that did not stop the batch.
type BatchError struct {
	Candidate string `json:"candidate"`
	Role      string `json:"role"`
	FolderID  string `json:"folder_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BatchSummary aggregates the outcome of one stage run over a folder of
// candidates. It maintains the accounting invariant
//
//	TotalSeen == Evaluated + Gated + len(Errors)
//
// where Evaluated counts candidates whose evaluation produced a decision,
// Gated counts candidates routed by the artifact gate before any evaluation,
// and Errors holds candidates whose processing failed and was isolated.
type BatchSummary struct {
	RunID string `json:"run_id"`
	Stage Stage  `json:"stage"`

	TotalSeen int `json:"total_seen"`
	Evaluated int `json:"evaluated"`
	Gated     int `json:"gated"`

	// Outcome breakdown. These are reporting counters and are not part of
	// the accounting invariant.
	Advanced          int `json:"advanced"`
	Rejected          int `json:"rejected"`
	Held              int `json:"held"`
	ManualReview      int `json:"manual_review"`
	BackupPool        int `json:"backup_pool"`
	MissingTranscript int `json:"missing_transcript"`
	DataIncomplete    int `json:"data_incomplete"`
	SkippedNoMaterial int `json:"skipped_no_material"`

	Rows   []CandidateRow `json:"rows"`
	Errors []BatchError   `json:"errors"`
}

// RecordGated counts a candidate the artifact gate routed without evaluation.
func (s *BatchSummary) RecordGated(row CandidateRow) {
	s.TotalSeen++
	s.Gated++
	s.recordOutcome(row.Outcome)
	s.Rows = append(s.Rows, row)
}

// RecordEvaluated counts a candidate whose evaluation produced a decision.
func (s *BatchSummary) RecordEvaluated(row CandidateRow) {
	s.TotalSeen++
	s.Evaluated++
	s.recordOutcome(row.Outcome)
	s.Rows = append(s.Rows, row)
}

// RecordError counts a candidate whose processing failed.
func (s *BatchSummary) RecordError(e BatchError) {
	s.TotalSeen++
	s.Errors = append(s.Errors, e)
}

func (s *BatchSummary) recordOutcome(o Outcome) {
	switch o {
	case OutcomeMoveToL2, OutcomeAdvanceToFinal:
		s.Advanced++
	case OutcomeRejectAtL1, OutcomeRejectAtL2:
		s.Rejected++
	case OutcomeHoldManualReview:
		s.Held++
		s.ManualReview++
	case OutcomeHoldExecReview:
		s.Held++
		s.ManualReview++
	case OutcomeHoldCapacity:
		s.Held++
		s.BackupPool++
	case OutcomeHoldMissingTranscript:
		s.Held++
		s.MissingTranscript++
	case OutcomeHoldDataIncomplete:
		s.Held++
		s.DataIncomplete++
	case OutcomeSkipNoMaterial:
		s.SkippedNoMaterial++
	}
}

// CheckInvariant reports whether the accounting counters are consistent.
// Two identities must hold: every candidate was either evaluated, gated, or
// errored; and every non-errored candidate landed in exactly one outcome
// bucket.
func (s *BatchSummary) CheckInvariant() error {
	if s.TotalSeen != s.Evaluated+s.Gated+len(s.Errors) {
		return fmt.Errorf("batch summary out of balance: seen=%d evaluated=%d gated=%d errors=%d",
			s.TotalSeen, s.Evaluated, s.Gated, len(s.Errors))
	}
	buckets := s.Advanced + s.Rejected + s.Held + s.SkippedNoMaterial
	if s.TotalSeen != buckets+len(s.Errors) {
		return fmt.Errorf("batch summary outcome buckets out of balance: seen=%d buckets=%d errors=%d",
			s.TotalSeen, buckets, len(s.Errors))
	}
	return nil
}

// ToLoggingFields flattens the summary into key/value pairs for structured
// logging. Errors beyond errorDisplayLimit are collapsed into a count.
func (s *BatchSummary) ToLoggingFields() []any {
	fields := []any{
		"run_id", s.RunID,
		"stage", string(s.Stage),
		"total_seen", s.TotalSeen,
		"evaluated", s.Evaluated,
		"gated", s.Gated,
		"advanced", s.Advanced,
		"rejected", s.Rejected,
		"held", s.Held,
		"manual_review", s.ManualReview,
		"backup_pool", s.BackupPool,
		"missing_transcript", s.MissingTranscript,
		"data_incomplete", s.DataIncomplete,
		"skipped_no_material", s.SkippedNoMaterial,
		"error_count", len(s.Errors),
	}
	for i, e := range s.Errors {
		if i == errorDisplayLimit {
			fields = append(fields, "errors_truncated",
				fmt.Sprintf("…and %d more", len(s.Errors)-errorDisplayLimit))
			break
		}
		fields = append(fields, fmt.Sprintf("error_%d", i),
			fmt.Sprintf("%s: %s (%s)", e.Candidate, e.Message, e.Code))
	}
	return fields
}
