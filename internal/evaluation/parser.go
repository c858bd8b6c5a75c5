package evaluation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

// ParseL1 validates a raw reasoning-service response against the L1 schema,
// applying one repair attempt when strict parsing fails. The repaired flag
// reports whether the repair was needed. Errors wrap
// domain.ErrInvalidEvaluationResponse.
func ParseL1(raw string) (*domain.L1Evaluation, bool, error) {
	var eval domain.L1Evaluation
	repaired, err := parseWithRepair(raw, &eval)
	if err != nil {
		return nil, repaired, err
	}
	if err := eval.Validate(); err != nil {
		return nil, repaired, invalid("L1 evaluation failed validation", err)
	}
	return &eval, repaired, nil
}

// ParseL2 validates a raw reasoning-service response against the L2 schema.
func ParseL2(raw string) (*domain.L2Evaluation, bool, error) {
	var eval domain.L2Evaluation
	repaired, err := parseWithRepair(raw, &eval)
	if err != nil {
		return nil, repaired, err
	}
	if err := eval.Validate(); err != nil {
		return nil, repaired, invalid("L2 evaluation failed validation", err)
	}
	return &eval, repaired, nil
}

// parseWithRepair tries strict parsing first and falls back to exactly one
// repair attempt. A response that stays unparseable after repair is a hard
// error; a second repair attempt never recovers anything a first did not.
func parseWithRepair(raw string, out any) (bool, error) {
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return false, nil
	}

	repaired := repairCommonJSONIssues(raw)
	if repaired == raw {
		return false, invalid("malformed JSON with no applicable repair", nil)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return true, invalid("JSON still invalid after repair", err)
	}
	return true, nil
}

func invalid(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidEvaluationResponse, msg)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrInvalidEvaluationResponse, msg, cause)
}

var unquotedKeyRegex = regexp.MustCompile(`(\{|,)\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)

// repairCommonJSONIssues applies conservative fixes for the formatting
// mistakes models make most often: markdown fences, trailing commas,
// unquoted keys, and single-quoted payloads. Returns the input unchanged
// when nothing applies.
func repairCommonJSONIssues(jsonStr string) string {
	original := jsonStr
	repaired := strings.TrimSpace(jsonStr)

	repaired = strings.TrimPrefix(repaired, "```json")
	repaired = strings.TrimPrefix(repaired, "```")
	repaired = strings.TrimSuffix(repaired, "```")

	repaired = strings.ReplaceAll(repaired, ",\n}", "\n}")
	repaired = strings.ReplaceAll(repaired, ",\r\n}", "\r\n}")
	repaired = strings.ReplaceAll(repaired, ", }", " }")
	repaired = strings.ReplaceAll(repaired, ",}", "}")
	repaired = strings.ReplaceAll(repaired, ",\n]", "\n]")
	repaired = strings.ReplaceAll(repaired, ",]", "]")

	repaired = unquotedKeyRegex.ReplaceAllString(repaired, `$1"$2":`)

	// Single-to-double quote swap is only safe when no double quotes exist
	// at all; mixed quoting would corrupt string contents.
	if !strings.Contains(repaired, `"`) && strings.Contains(repaired, `'`) {
		repaired = strings.ReplaceAll(repaired, `'`, `"`)
	}

	repaired = strings.TrimSpace(repaired)
	if repaired == original {
		return original
	}
	return repaired
}
