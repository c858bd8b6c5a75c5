package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hithonix/hireflow/internal/domain"
)

func TestBuildContextEmptyHistory(t *testing.T) {
	a := NewAssembler(newTestStore(t))
	blob, err := a.BuildContext(context.Background(), "nobody", "backend")
	require.NoError(t, err)
	assert.Empty(t, blob)
}

func TestBuildContextSectionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertProfile(ctx, &domain.CandidateProfile{
		CandidateKey: "priya-sharma", CandidateName: "Priya Sharma",
		RoleKey: "backend", RoleName: "Backend Engineer",
		Strengths:   []string{"system design", "mentoring"},
		LastStage:   domain.StageL1,
		LastOutcome: domain.OutcomeMoveToL2,
	}))
	for _, run := range []string{"run-1", "run-2"} {
		_, err := store.AppendEvent(ctx, event(run, "priya-sharma", "backend", domain.StageL1, domain.OutcomeMoveToL2))
		require.NoError(t, err)
	}
	_, err := store.SeedRoleProfile(ctx, &domain.RoleProfile{
		RoleKey:                "backend",
		RoleName:               "Backend Engineer",
		CompetencyWeights:      map[string]float64{"overall_fit": 0.8, "communication": 0.7},
		CommonRejectionReasons: []string{"shallow system design"},
		TopPerformerPatterns:   []string{"ownership"},
	})
	require.NoError(t, err)

	a := NewAssembler(store)
	blob, err := a.BuildContext(ctx, "priya-sharma", "backend")
	require.NoError(t, err)

	wantOrder := []string{
		"Candidate Priya Sharma previously evaluated",
		"Known strengths: system design; mentoring",
		"Recent evaluation events",
		"Role rubric weights: communication=0.70, overall_fit=0.80",
		"Common rejection reasons for this role: shallow system design",
		"Top performer patterns for this role: ownership",
	}
	lastIdx := -1
	for _, want := range wantOrder {
		idx := strings.Index(blob, want)
		require.GreaterOrEqual(t, idx, 0, "missing section %q in:\n%s", want, blob)
		assert.Greater(t, idx, lastIdx, "section %q out of order", want)
		lastIdx = idx
	}
}

func TestBuildContextDeterministic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.SeedRoleProfile(ctx, &domain.RoleProfile{
		RoleKey:           "backend",
		CompetencyWeights: map[string]float64{"b": 0.2, "a": 0.1, "c": 0.3},
	})
	require.NoError(t, err)

	a := NewAssembler(store)
	first, err := a.BuildContext(ctx, "x", "backend")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.BuildContext(ctx, "x", "backend")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Contains(t, first, "a=0.10, b=0.20, c=0.30")
}

func TestRoleProfileFromL1(t *testing.T) {
	eval := &domain.L1Evaluation{
		MatchSummary:  "summary",
		FitScore:      82,
		FinalDecision: "move_to_l2",
		Strengths:     []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"},
		Concerns:      []string{"c1", "c2"},
	}
	rp := RoleProfileFromL1("backend", "Backend Engineer", eval)

	assert.Equal(t, "backend", rp.RoleKey)
	assert.InDelta(t, 0.82, rp.CompetencyWeights["overall_fit"], 1e-9)
	assert.Len(t, rp.TopPerformerPatterns, 5)
	assert.Equal(t, []string{"c1", "c2"}, rp.CommonRejectionReasons)
	assert.Contains(t, rp.Notes, "Auto-generated")
}

func TestInputsHash(t *testing.T) {
	in := domain.EvaluationInputs{ResumeText: "resume", JDText: "jd", TranscriptText: "t"}
	h1 := InputsHash(in)
	h2 := InputsHash(in)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	in.FeedbackText = "changed"
	assert.NotEqual(t, h1, InputsHash(in))
}

func TestInputsHashClipsLongDocuments(t *testing.T) {
	long := strings.Repeat("x", 3000)
	a := domain.EvaluationInputs{ResumeText: long}
	b := domain.EvaluationInputs{ResumeText: long + "tail beyond the clip"}
	assert.Equal(t, InputsHash(a), InputsHash(b))
}
