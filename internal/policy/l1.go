package policy

import (
	"fmt"

	"github.com/hithonix/hireflow/internal/domain"
)

// L1Scores are the normalized inputs to the first-pass decision.
type L1Scores struct {
	Overall     float64
	JDAlignment float64
}

// L1ScoresFrom derives the normalized score set from a validated evaluation.
// The screening rubric produces a single fit score, so JD alignment is the
// overall score until the rubric emits a separate one.
func L1ScoresFrom(e *domain.L1Evaluation) L1Scores {
	overall := e.Overall()
	return L1Scores{Overall: overall, JDAlignment: overall}
}

// DecideL1 maps a validated first-pass evaluation to its pipeline outcome.
//
// Rule precedence, first match wins:
//  1. incompleteness signals hold for data, never reject
//  2. hard blocks reject regardless of score
//  3. both scores at or above the pass threshold move to L2
//  4. either score at or below the reject threshold rejects
//  5. everything else holds for manual review
func DecideL1(e *domain.L1Evaluation) domain.Decision {
	signals := ScanL1Notes(e.Notes())
	scores := L1ScoresFrom(e)

	switch {
	case signals.MissingTranscript:
		return domain.Hold(domain.OutcomeHoldDataIncomplete,
			"screening flagged the interview transcript as missing")
	case signals.DataIncomplete:
		return domain.Hold(domain.OutcomeHoldDataIncomplete,
			"screening flagged required inputs as incomplete")
	case signals.HardBlock || e.FinalDecision == "mandatory_criteria_failed":
		return domain.Decision{
			Outcome: domain.OutcomeRejectAtL1,
			Reason:  "disqualifying condition flagged during screening",
		}
	case scores.Overall >= L1PassThreshold && scores.JDAlignment >= L1PassThreshold:
		return domain.Decision{
			Outcome: domain.OutcomeMoveToL2,
			Reason: fmt.Sprintf("overall %.2f and JD alignment %.2f clear the pass threshold",
				scores.Overall, scores.JDAlignment),
		}
	case scores.Overall <= L1RejectThreshold || scores.JDAlignment <= L1RejectThreshold:
		return domain.Decision{
			Outcome: domain.OutcomeRejectAtL1,
			Reason: fmt.Sprintf("overall %.2f or JD alignment %.2f at or below the reject threshold",
				scores.Overall, scores.JDAlignment),
		}
	default:
		return domain.Hold(domain.OutcomeHoldManualReview,
			fmt.Sprintf("mid-band scores (overall %.2f) need recruiter judgment", scores.Overall))
	}
}
