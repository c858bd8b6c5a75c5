// Package domain defines the core types of the evaluation pipeline:
// candidate records, stage evaluations, decision outcomes, memory records,
// and batch summaries. All types carry validation tags enforced through
// Validate() so invalid payloads are rejected at package boundaries rather
// than propagating as best-effort maps.
package domain

import "errors"

// Stage identifies a pipeline evaluation stage.
// Candidates enter at L1 and, when advanced, proceed to L2 and then FINAL.
type Stage string

// Stage enum values.
const (
	// StageL1 is the first-pass screening stage.
	StageL1 Stage = "L1"

	// StageL2 is the deeper second-pass evaluation stage.
	StageL2 Stage = "L2"

	// StageHold marks candidates parked for human follow-up.
	StageHold Stage = "HOLD"

	// StageFinal marks candidates that reached a terminal decision.
	StageFinal Stage = "FINAL"
)

// IsValidStage reports whether the stage is a recognized pipeline stage.
func IsValidStage(s Stage) bool {
	switch s {
	case StageL1, StageL2, StageHold, StageFinal:
		return true
	default:
		return false
	}
}

// EvaluationStage reports whether the stage runs a batch evaluation.
// Only L1 and L2 have decision engines; HOLD and FINAL are routing targets.
func EvaluationStage(s Stage) bool {
	return s == StageL1 || s == StageL2
}

// Outcome is the closed set of verdicts a stage decision engine can produce.
// An outcome is derived deterministically from a validated evaluation and is
// never mutated once assigned; a re-run produces a new outcome.
type Outcome string

// Outcome enum values across both stages.
const (
	// OutcomeMoveToL2 advances an L1 candidate to the L2 stage.
	OutcomeMoveToL2 Outcome = "MOVE_TO_L2"

	// OutcomeRejectAtL1 terminates the candidate at L1.
	OutcomeRejectAtL1 Outcome = "REJECT_AT_L1"

	// OutcomeAdvanceToFinal moves an L2 candidate to the final pool.
	OutcomeAdvanceToFinal Outcome = "ADVANCE_TO_FINAL"

	// OutcomeRejectAtL2 terminates the candidate at L2.
	OutcomeRejectAtL2 Outcome = "REJECT_AT_L2"

	// OutcomeHoldManualReview parks an L1 candidate for recruiter review.
	OutcomeHoldManualReview Outcome = "HOLD_MANUAL_REVIEW"

	// OutcomeHoldExecReview parks an L2 candidate for executive review.
	OutcomeHoldExecReview Outcome = "HOLD_EXEC_REVIEW"

	// OutcomeHoldDataIncomplete parks a candidate until missing artifacts
	// are uploaded and normalization is re-run.
	OutcomeHoldDataIncomplete Outcome = "HOLD_DATA_INCOMPLETE"

	// OutcomeHoldMissingTranscript parks a candidate whose mandatory stage
	// transcript was not found.
	OutcomeHoldMissingTranscript Outcome = "HOLD_MISSING_TRANSCRIPT"

	// OutcomeHoldCapacity parks an otherwise-passing L1 candidate because
	// the run's automatic pass ratio reached the configured cap.
	OutcomeHoldCapacity Outcome = "HOLD_CAPACITY_BACKUP"

	// OutcomeSkipNoMaterial records a candidate folder with no evaluable
	// material at all. Counted as a hold for reporting, never as an error.
	OutcomeSkipNoMaterial Outcome = "SKIP_NO_MATERIAL"
)

// IsHold reports whether the outcome is a non-terminal hold (including the
// no-material skip, which is accounted as a hold).
func (o Outcome) IsHold() bool {
	switch o {
	case OutcomeHoldManualReview, OutcomeHoldExecReview, OutcomeHoldDataIncomplete,
		OutcomeHoldMissingTranscript, OutcomeHoldCapacity, OutcomeSkipNoMaterial:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the outcome ends the candidate's run at this
// stage with an advance or a reject.
func (o Outcome) IsTerminal() bool {
	switch o {
	case OutcomeMoveToL2, OutcomeRejectAtL1, OutcomeAdvanceToFinal, OutcomeRejectAtL2:
		return true
	default:
		return false
	}
}

// HoldReason is the machine-readable reason code attached to hold outcomes.
// Exactly three codes are exposed outward; every hold type maps to one of
// them (see HoldReasonFor).
type HoldReason string

// HoldReason enum values.
const (
	// HoldReasonManualReview indicates a human must review ambiguous or
	// low-confidence signals before the candidate can proceed.
	HoldReasonManualReview HoldReason = "manual_review_required"

	// HoldReasonCapacityBackup indicates the candidate passed on merit but
	// was parked to keep the run's automatic pass ratio under the cap.
	HoldReasonCapacityBackup HoldReason = "backup_for_l2_capacity"

	// HoldReasonMissingInfo indicates artifacts or data were missing.
	HoldReasonMissingInfo HoldReason = "missing_noncritical_info"
)

// HoldReasonFor maps a hold outcome to its outward reason code.
// Returns empty for terminal outcomes.
func HoldReasonFor(o Outcome) HoldReason {
	switch o {
	case OutcomeHoldManualReview, OutcomeHoldExecReview:
		return HoldReasonManualReview
	case OutcomeHoldCapacity:
		return HoldReasonCapacityBackup
	case OutcomeHoldDataIncomplete, OutcomeHoldMissingTranscript, OutcomeSkipNoMaterial:
		return HoldReasonMissingInfo
	default:
		return ""
	}
}

// HoldLabel returns the human-readable description recruiters see for a
// hold outcome. Returns empty for terminal outcomes.
func HoldLabel(o Outcome) string {
	switch o {
	case OutcomeHoldManualReview:
		return "Hold – manual review required"
	case OutcomeHoldExecReview:
		return "Hold – executive review required"
	case OutcomeHoldDataIncomplete:
		return "Hold – missing required documents"
	case OutcomeHoldMissingTranscript:
		return "Hold – missing stage transcript"
	case OutcomeHoldCapacity:
		return "Hold – backup for L2 capacity"
	case OutcomeSkipNoMaterial:
		return "Skipped – no evaluable material"
	default:
		return ""
	}
}

// ErrUnknownOutcome is returned when an outcome value is not part of the
// closed enum for the stage being processed.
var ErrUnknownOutcome = errors.New("unknown decision outcome")

// Decision pairs an outcome with the rationale surfaced to recruiters.
// HoldReason is set only for hold outcomes.
type Decision struct {
	Outcome    Outcome    `json:"outcome"`
	Reason     string     `json:"reason"`
	HoldReason HoldReason `json:"hold_reason,omitempty"`
}

// Hold builds a hold decision with the outward reason code resolved from
// the outcome.
func Hold(outcome Outcome, reason string) Decision {
	return Decision{Outcome: outcome, Reason: reason, HoldReason: HoldReasonFor(outcome)}
}
