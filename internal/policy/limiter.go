package policy

import "github.com/hithonix/hireflow/internal/domain"

// CapacityLimiter throttles automatic L1 passes so a single run cannot flood
// the L2 stage. The limiter is stateless between calls; the caller feeds it
// the running counters, which makes the check deterministic and replayable.
//
// The projection includes the candidate under consideration: a candidate is
// downgraded when letting them through would push the pass ratio over the
// cap, not after it already has.
type CapacityLimiter struct {
	// PassRatioCap is the maximum moved/evaluated ratio. Zero means use
	// DefaultPassRatioCap.
	PassRatioCap float64

	// MinEvaluated is the batch size below which the cap is not enforced.
	// Zero means use MinEvaluatedBeforeCap.
	MinEvaluated int
}

func (l CapacityLimiter) cap() float64 {
	if l.PassRatioCap > 0 {
		return l.PassRatioCap
	}
	return DefaultPassRatioCap
}

func (l CapacityLimiter) minEvaluated() int {
	if l.MinEvaluated > 0 {
		return l.MinEvaluated
	}
	return MinEvaluatedBeforeCap
}

// ShouldLimit reports whether the next automatic pass would exceed the cap.
// evaluatedSoFar counts candidates already evaluated in this run (the
// current candidate excluded); movedSoFar counts those already moved to L2.
func (l CapacityLimiter) ShouldLimit(evaluatedSoFar, movedSoFar int) bool {
	total := evaluatedSoFar + 1
	if total < l.minEvaluated() {
		return false
	}
	projected := float64(movedSoFar+1) / float64(max(1, total))
	return projected > l.cap()
}

// Apply downgrades a MOVE_TO_L2 decision to a capacity hold when the cap
// would be exceeded. Every other decision passes through untouched, so the
// limiter can never promote, reject, or alter a hold.
func (l CapacityLimiter) Apply(d domain.Decision, evaluatedSoFar, movedSoFar int) domain.Decision {
	if d.Outcome != domain.OutcomeMoveToL2 {
		return d
	}
	if !l.ShouldLimit(evaluatedSoFar, movedSoFar) {
		return d
	}
	return domain.Hold(domain.OutcomeHoldCapacity,
		"passed on merit; parked to keep the automatic L2 pass ratio under the cap")
}
