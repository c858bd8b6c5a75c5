// Package policy implements the deterministic decision engines that turn a
// validated stage evaluation into a pipeline outcome. The engines are pure:
// the same evaluation always yields the same decision, model recommendation
// labels never override the rules, and every threshold lives in this package
// so a policy change is a one-line diff.
package policy

// Normalized score thresholds. All comparisons run on [0,1] scores; raw
// 0-100 scores are normalized in the domain layer.
const (
	// L1PassThreshold is the floor both overall and JD-alignment scores
	// must clear for an automatic move to L2.
	L1PassThreshold = 0.70

	// L1RejectThreshold rejects at L1 when either score falls at or below.
	L1RejectThreshold = 0.40

	// L2AdvanceThreshold is the floor overall and role-fit must clear for
	// an advance to the final pool.
	L2AdvanceThreshold = 0.80

	// L2RejectThreshold rejects at L2 when any core score falls at or below.
	L2RejectThreshold = 0.50

	// L2CommunicationFloor is the minimum communication score for advance.
	L2CommunicationFloor = 0.70

	// L2LeadershipFloor is the minimum leadership score for advance, applied
	// only when a leadership signal exists.
	L2LeadershipFloor = 0.75

	// L2ExecBandLow and L2ExecBandHigh bound the overall-score band routed
	// to executive review instead of rejection, subject to
	// L2ExecCommunicationFloor.
	L2ExecBandLow            = 0.65
	L2ExecBandHigh           = 0.80
	L2ExecCommunicationFloor = 0.60
)

// Capacity limiter defaults.
const (
	// DefaultPassRatioCap is the maximum fraction of evaluated candidates a
	// single run may move to L2 automatically.
	DefaultPassRatioCap = 0.45

	// MinEvaluatedBeforeCap is the number of evaluated candidates below
	// which the cap is not enforced, so small batches are never throttled.
	MinEvaluatedBeforeCap = 5
)
