// Package gate validates that a candidate has the minimum supporting
// documents for a stage before any evaluation is requested. The gate never
// errors on missing material: absence maps to hold or skip outcomes with
// dedicated counters, and the batch keeps going.
package gate

import (
	"fmt"

	"github.com/hithonix/hireflow/internal/domain"
)

// Verdict is the gate's answer for one candidate. Outcome is
// OutcomeMoveToL2-free: the gate can only proceed, hold, or skip.
type Verdict struct {
	// Proceed is true when evaluation should run. The hold fields are
	// zero in that case.
	Proceed bool

	// Outcome is set when Proceed is false: HOLD_MISSING_TRANSCRIPT,
	// HOLD_DATA_INCOMPLETE, or SKIP_NO_MATERIAL.
	Outcome domain.Outcome

	// Detail is the human-readable explanation written to the status
	// record.
	Detail string

	// Transcript is the stage transcript resolved from the report or the
	// raw listing. Set only when Proceed is true.
	Transcript domain.DocumentRef
}

func hold(outcome domain.Outcome, detail string) Verdict {
	return Verdict{Outcome: outcome, Detail: detail}
}

// Check gates one candidate for a stage.
//
// The stage transcript is mandatory: its absence holds the candidate, never
// skips them. A skip happens only when none of resume, job description, or
// transcript exist at all, meaning there is nothing to evaluate and nothing
// worth a recruiter's attention yet. Precedence, first match wins:
//
//	no material at all      -> SKIP_NO_MATERIAL
//	transcript missing      -> HOLD_MISSING_TRANSCRIPT
//	resume or JD missing    -> HOLD_DATA_INCOMPLETE
//	otherwise               -> proceed
func Check(report *domain.NormalizationReport, listing []domain.DocumentRef, stage domain.Stage) Verdict {
	if report == nil {
		return hold(domain.OutcomeHoldDataIncomplete,
			"no normalization report found; run the normalizer before evaluation")
	}

	transcript := resolveTranscript(report, listing, stage)

	hasResume := report.Resume != nil
	hasJD := report.JD != nil
	hasTranscript := !transcript.IsZero()

	switch {
	case !hasResume && !hasJD && !hasTranscript:
		return hold(domain.OutcomeSkipNoMaterial,
			"folder has no resume, job description, or transcript")
	case !hasTranscript:
		return hold(domain.OutcomeHoldMissingTranscript,
			fmt.Sprintf("no %s interview transcript found", stage))
	case !hasResume || !hasJD:
		return hold(domain.OutcomeHoldDataIncomplete,
			missingSlotsDetail(hasResume, hasJD))
	default:
		return Verdict{Proceed: true, Transcript: transcript}
	}
}

// resolveTranscript prefers the normalizer's canonical transcript slot and
// falls back to scanning the raw listing, which covers folders normalized
// before the current stage's transcript was uploaded.
func resolveTranscript(report *domain.NormalizationReport, listing []domain.DocumentRef, stage domain.Stage) domain.DocumentRef {
	if report.Transcript != nil && !report.Transcript.IsZero() {
		return *report.Transcript
	}
	if ref, ok := FindStageTranscript(listing, stage); ok {
		return ref
	}
	return domain.DocumentRef{}
}

func missingSlotsDetail(hasResume, hasJD bool) string {
	switch {
	case !hasResume && !hasJD:
		return "resume and job description are missing"
	case !hasResume:
		return "resume is missing"
	default:
		return "job description is missing"
	}
}
