package domain

import "time"

// ProfileStatus is the candidate's terminal standing as far as talent
// memory knows it.
type ProfileStatus string

// ProfileStatus enum values.
const (
	ProfileShortlisted ProfileStatus = "shortlisted"
	ProfileRejected    ProfileStatus = "rejected"
	ProfileJoined      ProfileStatus = "joined"
	ProfileOnHold      ProfileStatus = "on_hold"
	ProfileUnknown     ProfileStatus = "unknown"
)

// ProfileStatusFor maps a pipeline outcome to the profile standing recorded
// in memory. Mid-pipeline advances stay unknown; only L2 terminal outcomes
// settle the standing. "joined" is set by humans after onboarding, never by
// the pipeline.
func ProfileStatusFor(o Outcome) ProfileStatus {
	switch {
	case o == OutcomeAdvanceToFinal:
		return ProfileShortlisted
	case o == OutcomeRejectAtL1 || o == OutcomeRejectAtL2:
		return ProfileRejected
	case o.IsHold():
		return ProfileOnHold
	default:
		return ProfileUnknown
	}
}

// CandidateProfile is the durable per-candidate record in talent memory.
// Upserts are last-writer-wins on (CandidateKey, RoleKey).
type CandidateProfile struct {
	CandidateKey    string        `json:"candidate_key" validate:"required"`
	CandidateName   string        `json:"candidate_name" validate:"required"`
	RoleKey         string        `json:"role_key" validate:"required"`
	RoleName        string        `json:"role_name"`
	Skills          []string      `json:"skills"`
	ExperienceYears float64       `json:"experience_years"`
	Strengths       []string      `json:"strengths"`
	Weaknesses      []string      `json:"weaknesses"`
	Status          ProfileStatus `json:"status"`
	LastStage       Stage         `json:"last_stage"`
	LastOutcome     Outcome       `json:"last_outcome"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CandidateEvent records one evaluation outcome for a candidate. Events are
// idempotent on (RunID, CandidateKey, Stage): the first append for a key
// wins and later appends for the same key are silently ignored.
type CandidateEvent struct {
	RunID        string  `json:"run_id" validate:"required"`
	CandidateKey string  `json:"candidate_key" validate:"required"`
	RoleKey      string  `json:"role_key" validate:"required"`
	Stage        Stage   `json:"stage" validate:"required"`
	Outcome      Outcome `json:"outcome" validate:"required"`

	// Agent names the evaluator persona that produced the outcome.
	Agent string `json:"agent"`

	Score      float64    `json:"score" validate:"min=0,max=1"`
	Confidence float64    `json:"confidence" validate:"min=0,max=1"`
	HoldReason HoldReason `json:"hold_reason,omitempty"`
	Summary    string     `json:"summary"`
	InputsHash string     `json:"inputs_hash"`

	// Artifacts links the stored result/status documents for this event.
	Artifacts []string  `json:"artifacts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks field constraints on the event.
func (e *CandidateEvent) Validate() error {
	if err := validate.Struct(e); err != nil {
		return ErrInvalidEvent
	}
	return nil
}

// RoleProfile is the per-role rubric accumulated from past evaluations.
// Seeded automatically from the first L1 evaluation for a role and only if
// no profile exists yet; later evaluations never overwrite a seeded profile.
type RoleProfile struct {
	RoleKey                string             `json:"role_key" validate:"required"`
	RoleName               string             `json:"role_name"`
	RubricVersion          string             `json:"rubric_version"`
	CompetencyWeights      map[string]float64 `json:"competency_weights"`
	CommonRejectionReasons []string           `json:"common_rejection_reasons"`
	TopPerformerPatterns   []string           `json:"top_performer_patterns"`
	Notes                  string             `json:"notes"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// FinalDecisionRecord is the terminal verdict for a candidate on a role.
// Upserts are keyed by (CandidateKey, RoleKey), last writer wins.
type FinalDecisionRecord struct {
	CandidateKey string    `json:"candidate_key" validate:"required"`
	RoleKey      string    `json:"role_key" validate:"required"`
	Decision     string    `json:"decision" validate:"required"`
	NextAction   string    `json:"next_action"`
	DecidedAt    time.Time `json:"decided_at"`
}

// Final decision labels and the operator actions attached to them.
const (
	FinalDecisionHire   = "Final Hire"
	FinalDecisionReject = "Final Reject"

	NextActionOffer    = "Send offer & start onboarding"
	NextActionFeedback = "Share rejection feedback"
)
