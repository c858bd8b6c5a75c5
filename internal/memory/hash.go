package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hithonix/hireflow/internal/domain"
)

// inputClipLength bounds how much of each document contributes to the hash.
// Long documents differ in their openings in practice, and clipping keeps
// hashing cost flat regardless of transcript size.
const inputClipLength = 2000

// InputsHash fingerprints the evaluation inputs for one candidate. The hash
// is stable across retries (json.Marshal sorts map keys) and feeds event
// records and provider idempotency keys.
func InputsHash(in domain.EvaluationInputs) string {
	payload, _ := json.Marshal(map[string]string{
		"resume":     clip(in.ResumeText),
		"jd":         clip(in.JDText),
		"transcript": clip(in.TranscriptText),
		"feedback":   clip(in.FeedbackText),
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func clip(s string) string {
	if len(s) <= inputClipLength {
		return s
	}
	return s[:inputClipLength]
}
