package domain

import "errors"

// ErrInvalidEvaluationResponse indicates the reasoning service returned a
// payload that failed schema validation even after one repair attempt.
// This is surfaced to the batch aggregator as a per-candidate error and is
// never coerced into a hold decision.
var ErrInvalidEvaluationResponse = errors.New("invalid evaluation response")

// ErrInvalidEvaluation indicates a structured evaluation record failed
// field-level validation.
var ErrInvalidEvaluation = errors.New("invalid evaluation")

// ErrInvalidEvent indicates a candidate event failed validation before it
// could be recorded.
var ErrInvalidEvent = errors.New("invalid candidate event")

// ErrMissingLocation indicates no target folder is configured for a
// (stage, role) pair. This is a configuration error: the candidate is left
// in place and the batch continues.
var ErrMissingLocation = errors.New("no location configured for role")

// ErrSummaryFrozen indicates an attempt to mutate a batch summary after it
// was published.
var ErrSummaryFrozen = errors.New("batch summary already published")
