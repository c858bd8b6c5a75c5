package batch

// Error codes attached to per-candidate structured errors.
const (
	// ErrCodeInvalidResponse marks a reasoning-service response that failed
	// schema validation after repair. The candidate is skipped for the run
	// and no decision is recorded.
	ErrCodeInvalidResponse = "invalid_evaluation_response"

	// ErrCodeEvaluationFailed marks a reasoning-service call that failed
	// outright (transport, provider error).
	ErrCodeEvaluationFailed = "evaluation_failed"

	// ErrCodeDocumentIO marks a failure reading candidate documents.
	ErrCodeDocumentIO = "document_io_error"

	// ErrCodePanic marks a recovered panic during a candidate's processing.
	ErrCodePanic = "candidate_processing_panic"
)
