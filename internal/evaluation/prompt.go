// Package evaluation assembles prompts for the reasoning service and turns
// its raw responses into validated evaluation records. Validation applies a
// one-shot repair for the JSON formatting mistakes models habitually make;
// anything still invalid after repair is a hard per-candidate error, never a
// silent hold.
package evaluation

import (
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

const l1SystemPrompt = `You are a rigorous technical recruiter performing a first-pass (L1) candidate screening. You evaluate strictly against the job description, flag every risk you see, and never invent facts that are not in the provided documents.`

const l2SystemPrompt = `You are a senior hiring panel member performing a deep second-pass (L2) candidate evaluation. You assess technical depth, communication, leadership readiness, and culture alignment strictly from the provided documents, and you flag integrity concerns without exception.`

const l1OutputContract = `Respond with a single JSON object and nothing else. No markdown fences, no commentary. The object must contain exactly these fields:
{
  "match_summary": string,
  "strengths": [string],
  "concerns": [string],
  "behavioral_signals": string,
  "communication_signals": string,
  "red_flags": [string],
  "risk_flags": [string],
  "compensation_alignment": "High" | "Medium" | "Low",
  "joining_feasibility": "High" | "Medium" | "Low",
  "fit_score": integer between 0 and 100,
  "final_decision": string
}`

const l2OutputContract = `Respond with a single JSON object and nothing else. No markdown fences, no commentary. The object must contain exactly these fields:
{
  "leadership_assessment": string,
  "technical_capability": string,
  "communication_depth": string,
  "culture_alignment": string,
  "career_potential": string,
  "strengths": [string],
  "concerns": [string],
  "risk_flags": [string],
  "final_score": integer between 0 and 100,
  "final_recommendation": "hire" | "strong_yes" | "yes" | "hold" | "no" | "strong_no" | "reject",
  "l2_summary": string,
  "rationale": string
}`

// BuildL1Prompt renders the first-pass screening prompt. Section order is
// fixed so identical inputs always produce an identical prompt, which keeps
// the inputs hash stable across retries.
func BuildL1Prompt(in domain.EvaluationInputs) string {
	var b strings.Builder
	section(&b, "JOB DESCRIPTION", in.JDText)
	section(&b, "RESUME", in.ResumeText)
	section(&b, "L1 INTERVIEW TRANSCRIPT", in.TranscriptText)
	if strings.TrimSpace(in.FeedbackText) != "" {
		section(&b, "HUMAN L1 FEEDBACK", in.FeedbackText)
	}
	if strings.TrimSpace(in.MemoryContext) != "" {
		section(&b, "TALENT MEMORY CONTEXT", in.MemoryContext)
	}
	b.WriteString(l1OutputContract)
	return b.String()
}

// BuildL2Prompt renders the second-pass evaluation prompt.
func BuildL2Prompt(in domain.EvaluationInputs) string {
	var b strings.Builder
	section(&b, "JOB DESCRIPTION", in.JDText)
	section(&b, "RESUME", in.ResumeText)
	section(&b, "L2 INTERVIEW TRANSCRIPT", in.TranscriptText)
	if strings.TrimSpace(in.FeedbackText) != "" {
		section(&b, "HUMAN L2 FEEDBACK", in.FeedbackText)
	}
	if strings.TrimSpace(in.MemoryContext) != "" {
		section(&b, "TALENT MEMORY CONTEXT", in.MemoryContext)
	}
	b.WriteString(l2OutputContract)
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	b.WriteString("### ")
	b.WriteString(title)
	b.WriteString("\n")
	body = strings.TrimSpace(body)
	if body == "" {
		body = "(not provided)"
	}
	b.WriteString(body)
	b.WriteString("\n\n")
}
