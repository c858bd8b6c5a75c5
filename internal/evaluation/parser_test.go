package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hithonix/hireflow/internal/domain"
)

const validL1JSON = `{
	"match_summary": "Solid backend engineer with relevant platform experience",
	"strengths": ["distributed systems", "mentoring"],
	"concerns": ["notice period unclear"],
	"behavioral_signals": "calm, structured answers",
	"communication_signals": "clear and concise",
	"red_flags": [],
	"risk_flags": [],
	"compensation_alignment": "Medium",
	"joining_feasibility": "High",
	"fit_score": 78,
	"final_decision": "move_to_l2"
}`

func TestParseL1Strict(t *testing.T) {
	eval, repaired, err := ParseL1(validL1JSON)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Equal(t, 78, eval.FitScore)
	assert.Equal(t, "move_to_l2", eval.FinalDecision)
	assert.Len(t, eval.Strengths, 2)
}

func TestParseL1RepairsMarkdownFences(t *testing.T) {
	eval, repaired, err := ParseL1("```json\n" + validL1JSON + "\n```")
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, 78, eval.FitScore)
}

func TestParseL1RepairsTrailingComma(t *testing.T) {
	raw := `{"match_summary": "ok profile", "fit_score": 55, "final_decision": "review",}`
	eval, repaired, err := ParseL1(raw)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, 55, eval.FitScore)
}

func TestParseL1RepairsUnquotedKeys(t *testing.T) {
	raw := `{match_summary: "ok profile", fit_score: 60, final_decision: "review"}`
	eval, repaired, err := ParseL1(raw)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, 60, eval.FitScore)
}

func TestParseL1FailsAfterRepair(t *testing.T) {
	_, _, err := ParseL1(`{"match_summary": "truncated mid`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEvaluationResponse)
}

func TestParseL1RejectsNonJSONProse(t *testing.T) {
	_, _, err := ParseL1(`The candidate looks strong overall and I would move them forward.`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEvaluationResponse)
}

func TestParseL1RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"score out of range", `{"match_summary": "x", "fit_score": 150, "final_decision": "review"}`},
		{"missing summary", `{"fit_score": 70, "final_decision": "review"}`},
		{"missing decision", `{"match_summary": "x", "fit_score": 70}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseL1(tt.raw)
			assert.ErrorIs(t, err, domain.ErrInvalidEvaluationResponse)
		})
	}
}

func TestParseL2Strict(t *testing.T) {
	raw := `{
		"leadership_assessment": "Strong",
		"technical_capability": "Deep systems knowledge",
		"communication_depth": "Excellent",
		"culture_alignment": "Good",
		"career_potential": "High",
		"strengths": ["architecture"],
		"concerns": [],
		"risk_flags": [],
		"final_score": 88,
		"final_recommendation": "hire",
		"l2_summary": "Clear advance",
		"rationale": "Consistently strong across all dimensions."
	}`
	eval, repaired, err := ParseL2(raw)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Equal(t, 88, eval.FinalScore)
	assert.Equal(t, "hire", eval.FinalRecommendation)
}

func TestParseL2MissingRationale(t *testing.T) {
	raw := `{"final_score": 70, "final_recommendation": "yes"}`
	_, _, err := ParseL2(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidEvaluationResponse)
}

func TestRepairCommonJSONIssues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fences removed", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"single quotes swapped", `{'a': 1}`, `{"a": 1}`},
		{"no repair returns input", `{"a": 1}`, `{"a": 1}`},
		{"trailing comma in array", `{"a": [1,2,]}`, `{"a": [1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairCommonJSONIssues(tt.in))
		})
	}
}
