package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

// recentEventLimit bounds how many prior events the context blob includes.
const recentEventLimit = 3

// seedListLimit bounds how many strengths/concerns seed a role profile.
const seedListLimit = 5

// Assembler renders prior talent memory into the deterministic text block
// appended to evaluation prompts. Same stored state, same output: the blob
// feeds an inputs hash used for provider-side idempotency.
type Assembler struct {
	store Store
}

// NewAssembler creates a context assembler over a store.
func NewAssembler(store Store) *Assembler {
	return &Assembler{store: store}
}

// BuildContext renders the memory context for a candidate/role pair.
// Returns "" when the candidate has no recorded history at all.
func (a *Assembler) BuildContext(ctx context.Context, candidateKey, roleKey string) (string, error) {
	profile, err := a.store.GetProfile(ctx, candidateKey, roleKey)
	if err != nil {
		return "", err
	}
	events, err := a.store.RecentEvents(ctx, candidateKey, roleKey, recentEventLimit)
	if err != nil {
		return "", err
	}
	roleProfile, err := a.store.GetRoleProfile(ctx, roleKey)
	if err != nil {
		return "", err
	}

	if profile == nil && len(events) == 0 && roleProfile == nil {
		return "", nil
	}

	var lines []string
	if profile != nil {
		lines = append(lines, fmt.Sprintf("Candidate %s previously evaluated for %s (last stage %s, outcome %s).",
			profile.CandidateName, profile.RoleName, profile.LastStage, profile.LastOutcome))
		if len(profile.Strengths) > 0 {
			lines = append(lines, "Known strengths: "+strings.Join(profile.Strengths, "; "))
		}
	}
	if len(events) > 0 {
		lines = append(lines, "Recent evaluation events (most recent first):")
		for _, e := range events {
			lines = append(lines, fmt.Sprintf("- [%s] %s, score %.2f (run %s)",
				e.Stage, e.Outcome, e.Score, e.RunID))
		}
	}
	if roleProfile != nil {
		if len(roleProfile.CompetencyWeights) > 0 {
			lines = append(lines, "Role rubric weights: "+formatWeights(roleProfile.CompetencyWeights))
		}
		if len(roleProfile.CommonRejectionReasons) > 0 {
			lines = append(lines, "Common rejection reasons for this role: "+
				strings.Join(roleProfile.CommonRejectionReasons, "; "))
		}
		if len(roleProfile.TopPerformerPatterns) > 0 {
			lines = append(lines, "Top performer patterns for this role: "+
				strings.Join(roleProfile.TopPerformerPatterns, "; "))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// formatWeights renders weights with sorted keys so output is deterministic.
func formatWeights(weights map[string]float64) string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2f", k, weights[k])
	}
	return strings.Join(parts, ", ")
}

// RoleProfileFromL1 seeds a role profile from the first screening seen for a
// role: the candidate's concerns become early rejection-reason hints and
// their strengths become early top-performer hints. Later evaluations never
// overwrite a seeded profile; refinement is a human's job.
func RoleProfileFromL1(roleKey, roleName string, eval *domain.L1Evaluation) *domain.RoleProfile {
	return &domain.RoleProfile{
		RoleKey:                roleKey,
		RoleName:               roleName,
		CompetencyWeights:      map[string]float64{"overall_fit": eval.Overall()},
		CommonRejectionReasons: clipList(eval.Concerns, seedListLimit),
		TopPerformerPatterns:   clipList(eval.Strengths, seedListLimit),
		Notes:                  "Auto-generated from first L1 evaluation",
	}
}

func clipList(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
