package policy

import (
	"fmt"
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

// L2Scores are the normalized inputs to the second-pass decision.
// Leadership is nil when the evaluation carried no leadership signal; the
// leadership floor then does not apply.
type L2Scores struct {
	Overall       float64
	RoleFit       float64
	Communication float64
	Leadership    *float64
}

// Qualitative label buckets for deriving numeric scores from free-text
// assessments. Matched case-insensitively as substrings.
var (
	commStrongLabels = []string{"excellent", "strong", "exceptional", "very good", "high"}
	commGoodLabels   = []string{"good", "clear", "effective"}
	commWeakLabels   = []string{"poor", "weak", "unclear", "limited"}

	leadHighLabels = []string{"high", "strong", "excellent", "proven"}
	leadMidLabels  = []string{"medium", "moderate", "developing"}
	leadLowLabels  = []string{"low", "weak", "none"}
)

// L2ScoresFrom derives the normalized score set from a validated evaluation.
// Role fit is the overall score until the rubric emits a separate one.
// Communication and leadership are derived from the qualitative assessments.
func L2ScoresFrom(e *domain.L2Evaluation) L2Scores {
	overall := e.Overall()
	return L2Scores{
		Overall:       overall,
		RoleFit:       overall,
		Communication: communicationScore(overall, e.CommunicationDepth),
		Leadership:    leadershipScore(e.LeadershipAssessment),
	}
}

// communicationScore anchors on the overall score, then lets the qualitative
// depth assessment pull it up or down within fixed bounds.
func communicationScore(overall float64, depth string) float64 {
	lower := strings.ToLower(depth)
	switch {
	case containsAny(lower, commStrongLabels):
		return max(overall, 0.9)
	case containsAny(lower, commGoodLabels):
		return max(overall, 0.7)
	case containsAny(lower, commWeakLabels):
		return min(overall, 0.4)
	default:
		return overall
	}
}

// leadershipScore maps the qualitative assessment to a fixed score, or nil
// when no assessment was given.
func leadershipScore(assessment string) *float64 {
	lower := strings.ToLower(strings.TrimSpace(assessment))
	if lower == "" || lower == "n/a" {
		return nil
	}
	score := 0.7
	switch {
	case containsAny(lower, leadHighLabels):
		score = 0.9
	case containsAny(lower, leadMidLabels):
		score = 0.7
	case containsAny(lower, leadLowLabels):
		score = 0.4
	}
	return &score
}

// Recommendation label sets. An explicit hold is honored before any
// threshold; positive labels are required for an advance; negative labels
// force a reject even on passing scores.
var (
	positiveRecommendations = map[string]bool{"hire": true, "strong_yes": true, "yes": true}
	negativeRecommendations = map[string]bool{"reject": true, "no": true, "strong_no": true}
)

// DecideL2 maps a validated second-pass evaluation to its pipeline outcome.
//
// Rule precedence, first match wins:
//  1. incompleteness signals hold for data, never reject
//  2. hard blocks reject regardless of score
//  3. an explicit "hold" recommendation routes to executive review
//  4. all floors cleared with a positive recommendation advances to final
//  5. any core score at or below the reject threshold, or a negative
//     recommendation, rejects
//  6. the executive band (overall in [0.65,0.80) with communication >= 0.60)
//     routes to executive review
//  7. everything else rejects; L2 is the last automated stage and an
//     unclassified candidate must not advance by default
func DecideL2(e *domain.L2Evaluation) domain.Decision {
	signals := ScanL2Notes(e.Notes())
	scores := L2ScoresFrom(e)
	rec := strings.ToLower(strings.TrimSpace(e.FinalRecommendation))

	switch {
	case signals.MissingTranscript:
		return domain.Hold(domain.OutcomeHoldDataIncomplete,
			"evaluation flagged the L2 transcript as missing")
	case signals.DataIncomplete:
		return domain.Hold(domain.OutcomeHoldDataIncomplete,
			"evaluation flagged required inputs as incomplete")
	case signals.HardBlock:
		return domain.Decision{
			Outcome: domain.OutcomeRejectAtL2,
			Reason:  "disqualifying condition flagged during evaluation",
		}
	case rec == "hold":
		return domain.Hold(domain.OutcomeHoldExecReview,
			"evaluator explicitly recommended a hold")
	case scores.Overall >= L2AdvanceThreshold &&
		scores.RoleFit >= L2AdvanceThreshold &&
		scores.Communication >= L2CommunicationFloor &&
		(scores.Leadership == nil || *scores.Leadership >= L2LeadershipFloor) &&
		positiveRecommendations[rec]:
		return domain.Decision{
			Outcome: domain.OutcomeAdvanceToFinal,
			Reason: fmt.Sprintf("overall %.2f, role fit %.2f and communication %.2f clear every advance floor",
				scores.Overall, scores.RoleFit, scores.Communication),
		}
	case scores.Overall <= L2RejectThreshold ||
		scores.RoleFit <= L2RejectThreshold ||
		scores.Communication <= L2RejectThreshold ||
		negativeRecommendations[rec]:
		return domain.Decision{
			Outcome: domain.OutcomeRejectAtL2,
			Reason: fmt.Sprintf("core score at or below the reject threshold (overall %.2f, communication %.2f) or negative recommendation",
				scores.Overall, scores.Communication),
		}
	case scores.Overall >= L2ExecBandLow && scores.Overall < L2ExecBandHigh &&
		scores.Communication >= L2ExecCommunicationFloor:
		return domain.Hold(domain.OutcomeHoldExecReview,
			fmt.Sprintf("overall %.2f sits in the executive review band", scores.Overall))
	default:
		return domain.Decision{
			Outcome: domain.OutcomeRejectAtL2,
			Reason:  "no advance or hold rule matched; defaulting to reject at the final automated stage",
		}
	}
}
