package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hithonix/hireflow/internal/domain"
	"github.com/hithonix/hireflow/internal/evaluation"
	"github.com/hithonix/hireflow/internal/llm"
	"github.com/hithonix/hireflow/internal/memory"
	"github.com/hithonix/hireflow/internal/policy"
	"github.com/hithonix/hireflow/internal/router"
	"github.com/hithonix/hireflow/internal/storage"
)

const testRole = "Backend Engineer"

// queueClient replays canned completions in order and counts calls.
type queueClient struct {
	mu        sync.Mutex
	responses []any // string content or error
	calls     int
}

func (c *queueClient) Complete(_ context.Context, _ *llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.responses) == 0 {
		return nil, errors.New("queue exhausted")
	}
	next := c.responses[0]
	c.responses = c.responses[1:]
	if err, ok := next.(error); ok {
		return nil, err
	}
	return &llm.Response{Content: next.(string), FinishReason: "stop"}, nil
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[domain.Outcome]int
	errors   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{outcomes: map[domain.Outcome]int{}, errors: map[string]int{}}
}

func (m *countingMetrics) RecordOutcome(_ domain.Stage, o domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[o]++
}

func (m *countingMetrics) RecordBatchError(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[code]++
}

// fixture is a full in-memory pipeline: document store, redis memory,
// canned LLM, and a processor wired across them.
type fixture struct {
	docs     *storage.InMemoryStore
	store    *memory.RedisStore
	client   *queueClient
	metrics  *countingMetrics
	proc     *Processor
	intakeL1 string
	queueL2  string
	final    string
}

func newFixture(t *testing.T, responses ...any) *fixture {
	t.Helper()

	docs := storage.NewInMemoryStore()
	intakeL1 := docs.AddFolder("", "L1 Queue")
	queueL2 := docs.AddFolder("", "L2 Queue")
	final := docs.AddFolder("", "Final Queue")

	resolver := storage.StaticResolver{Folders: map[domain.Stage]map[string]string{
		domain.StageL1:    {"backend-engineer": intakeL1},
		domain.StageL2:    {"backend-engineer": queueL2},
		domain.StageFinal: {"backend-engineer": final},
	}}

	mr := miniredis.RunT(t)
	store := memory.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")

	client := &queueClient{responses: responses}
	metrics := newCountingMetrics()

	proc := NewProcessor(
		Config{Roles: []string{testRole}},
		docs,
		storage.PlainTextExtractor{},
		resolver,
		router.New(docs, resolver, nil),
		evaluation.NewRequester(client, nil),
		store,
		metrics,
		Hooks{},
		nil,
	)

	return &fixture{
		docs:     docs,
		store:    store,
		client:   client,
		metrics:  metrics,
		proc:     proc,
		intakeL1: intakeL1,
		queueL2:  queueL2,
		final:    final,
	}
}

type candidateOpts struct {
	parent     string
	stage      domain.Stage
	noResume   bool
	noJD       bool
	transcript string // empty means no transcript slot
	feedback   string
}

// addCandidate creates a candidate folder with its documents and
// normalization report.
func (f *fixture) addCandidate(t *testing.T, name string, opts candidateOpts) string {
	t.Helper()

	parent := opts.parent
	if parent == "" {
		parent = f.intakeL1
	}
	stage := opts.stage
	if stage == "" {
		stage = domain.StageL1
	}
	folder := f.docs.AddFolder(parent, name)

	report := map[string]any{}
	if !opts.noResume {
		id := f.docs.AddFile(folder, "resume.txt", "text/plain", []byte("resume for "+name))
		report["resume"] = domain.DocumentRef{ID: id, Name: "resume.txt"}
	}
	if !opts.noJD {
		id := f.docs.AddFile(folder, "jd.txt", "text/plain", []byte("job description"))
		report["jd"] = domain.DocumentRef{ID: id, Name: "jd.txt"}
	}
	if opts.transcript != "" {
		filename := fmt.Sprintf("%s_transcript.txt", stage)
		id := f.docs.AddFile(folder, filename, "text/plain", []byte(opts.transcript))
		key := "l1_transcript"
		if stage == domain.StageL2 {
			key = "l2_transcript"
		}
		report[key] = domain.DocumentRef{ID: id, Name: filename}
	}
	if opts.feedback != "" {
		id := f.docs.AddFile(folder, "feedback.txt", "text/plain", []byte(opts.feedback))
		key := "l1_feedback"
		if stage == domain.StageL2 {
			key = "l2_feedback"
		}
		report[key] = domain.DocumentRef{ID: id, Name: "feedback.txt"}
	}

	body, err := json.Marshal(report)
	require.NoError(t, err)
	f.docs.AddFile(folder, storage.ReportFilename, "application/json", body)
	return folder
}

func l1Response(t *testing.T, fit int, decision string) string {
	t.Helper()
	body, err := json.Marshal(&domain.L1Evaluation{
		MatchSummary:  "summary",
		Strengths:     []string{"go"},
		Concerns:      []string{"short tenure"},
		FitScore:      fit,
		FinalDecision: decision,
	})
	require.NoError(t, err)
	return string(body)
}

func l2Response(t *testing.T, score int, recommendation, comm, lead string) string {
	t.Helper()
	body, err := json.Marshal(&domain.L2Evaluation{
		LeadershipAssessment: lead,
		CommunicationDepth:   comm,
		Strengths:            []string{"architecture"},
		FinalScore:           score,
		FinalRecommendation:  recommendation,
		L2Summary:            "deep dive",
		Rationale:            "because",
	})
	require.NoError(t, err)
	return string(body)
}

func TestProcessorL1MoveToL2(t *testing.T) {
	f := newFixture(t, l1Response(t, 85, "proceed"))
	folder := f.addCandidate(t, "Alice Chen", candidateOpts{transcript: "interview went well"})

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	row := summary.Rows[0]
	assert.Equal(t, domain.OutcomeMoveToL2, row.Outcome)
	assert.InDelta(t, 0.85, row.Score, 1e-9)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Equal(t, 1, summary.Advanced)
	require.NoError(t, summary.CheckInvariant())

	// Folder relocated to the L2 queue.
	assert.Equal(t, f.queueL2, f.docs.ParentOf(folder))

	// Status and result are written into the candidate folder.
	raw, ok := f.docs.FileContent(folder, "l1_status.json")
	require.True(t, ok)
	var status router.StatusRecord
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.Equal(t, string(domain.OutcomeMoveToL2), status.Status)
	assert.Equal(t, "run-1", status.CorrelationID)

	raw, ok = f.docs.FileContent(folder, "l1_result.json")
	require.True(t, ok)
	var result router.ResultRecord
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.InDelta(t, 0.85, result.OverallScore, 1e-9)
	assert.Equal(t, string(domain.OutcomeMoveToL2), result.PipelineRecommendation)

	// Memory carries the profile, the event, and the seeded role profile.
	ctx := context.Background()
	profile, err := f.store.GetProfile(ctx, "alice-chen", "backend-engineer")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, domain.ProfileShortlisted, profile.Status)
	assert.Equal(t, domain.OutcomeMoveToL2, profile.LastOutcome)

	evts, err := f.store.RecentEvents(ctx, "alice-chen", "backend-engineer", 10)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, "run-1", evts[0].RunID)
	assert.Equal(t, "l1-screener", evts[0].Agent)
	assert.NotEmpty(t, evts[0].InputsHash)

	rp, err := f.store.GetRoleProfile(ctx, "backend-engineer")
	require.NoError(t, err)
	require.NotNil(t, rp)
	assert.Equal(t, []string{"go"}, rp.TopPerformerPatterns)
}

func TestProcessorGateHoldsWithoutEvaluation(t *testing.T) {
	f := newFixture(t)
	folder := f.addCandidate(t, "Bob Lee", candidateOpts{}) // no transcript

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	assert.Zero(t, f.client.calls, "gated candidates must not reach the evaluator")
	assert.Equal(t, 1, summary.Gated)
	assert.Equal(t, 1, summary.MissingTranscript)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, domain.OutcomeHoldMissingTranscript, summary.Rows[0].Outcome)
	require.NoError(t, summary.CheckInvariant())

	// Status written, no result, folder stays put.
	_, ok := f.docs.FileContent(folder, "l1_status.json")
	assert.True(t, ok)
	_, ok = f.docs.FileContent(folder, "l1_result.json")
	assert.False(t, ok)
	assert.Equal(t, f.intakeL1, f.docs.ParentOf(folder))

	// Gate holds leave no memory trace; nothing was evaluated.
	evts, err := f.store.RecentEvents(context.Background(), "bob-lee", "backend-engineer", 10)
	require.NoError(t, err)
	assert.Empty(t, evts)
}

func TestProcessorSkipNoMaterial(t *testing.T) {
	f := newFixture(t)
	f.addCandidate(t, "Empty Folder", candidateOpts{noResume: true, noJD: true})

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SkippedNoMaterial)
	assert.Zero(t, summary.Held)
	require.NoError(t, summary.CheckInvariant())
}

func TestProcessorErrorIsolation(t *testing.T) {
	f := newFixture(t,
		errors.New("provider down"),
		l1Response(t, 85, "proceed"),
	)
	f.addCandidate(t, "Alice Chen", candidateOpts{transcript: "t"})
	f.addCandidate(t, "Bob Lee", candidateOpts{transcript: "t"})

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, ErrCodeEvaluationFailed, summary.Errors[0].Code)
	assert.Equal(t, "Alice Chen", summary.Errors[0].Candidate)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Equal(t, 2, summary.TotalSeen)
	require.NoError(t, summary.CheckInvariant())
	assert.Equal(t, 1, f.metrics.errors[ErrCodeEvaluationFailed])
}

func TestProcessorInvalidResponseCode(t *testing.T) {
	f := newFixture(t, "I think this candidate looks promising overall.")
	f.addCandidate(t, "Alice Chen", candidateOpts{transcript: "t"})

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, ErrCodeInvalidResponse, summary.Errors[0].Code)

	// No status is written for failed evaluations; the candidate is simply
	// picked up again on the next run.
	_, ok := f.docs.FileContent(summary.Errors[0].FolderID, "l1_status.json")
	assert.False(t, ok)
}

func TestProcessorCapacityLimiter(t *testing.T) {
	const n = 20
	responses := make([]any, 0, n)
	for i := 0; i < n; i++ {
		responses = append(responses, l1Response(t, 90, "proceed"))
	}
	f := newFixture(t, responses...)
	for i := 0; i < n; i++ {
		f.addCandidate(t, fmt.Sprintf("Candidate %02d", i), candidateOpts{transcript: "t"})
	}

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)

	assert.Equal(t, n, summary.Evaluated)
	assert.Positive(t, summary.BackupPool, "the cap must start downgrading passes")
	assert.Positive(t, summary.Advanced)
	require.NoError(t, summary.CheckInvariant())

	// Past the warm-up exemption, the pass ratio stays at or below the cap.
	ratio := float64(summary.Advanced) / float64(summary.Evaluated)
	assert.LessOrEqual(t, ratio, policy.DefaultPassRatioCap+
		float64(policy.MinEvaluatedBeforeCap)/float64(n))

	for _, row := range summary.Rows {
		if row.Outcome == domain.OutcomeHoldCapacity {
			assert.Equal(t, domain.HoldReasonCapacityBackup, row.HoldReason)
		}
	}
}

func TestProcessorL2AdvanceWritesFinalDecision(t *testing.T) {
	f := newFixture(t, l2Response(t, 85, "hire", "excellent communicator", "strong"))
	folder := f.addCandidate(t, "Alice Chen", candidateOpts{
		parent: f.queueL2, stage: domain.StageL2, transcript: "deep dive transcript",
	})

	summary, err := f.proc.Run(context.Background(), domain.StageL2, "run-2")
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, domain.OutcomeAdvanceToFinal, summary.Rows[0].Outcome)
	assert.Equal(t, f.final, f.docs.ParentOf(folder))

	final, err := f.store.GetFinalDecision(context.Background(), "alice-chen", "backend-engineer")
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, domain.FinalDecisionHire, final.Decision)
	assert.Equal(t, domain.NextActionOffer, final.NextAction)

	_, ok := f.docs.FileContent(folder, "l2_status.json")
	assert.True(t, ok)
	_, ok = f.docs.FileContent(folder, "l2_result.json")
	assert.True(t, ok)
}

func TestProcessorL2RejectWritesFinalDecision(t *testing.T) {
	f := newFixture(t, l2Response(t, 40, "no", "unclear answers", ""))
	folder := f.addCandidate(t, "Bob Lee", candidateOpts{
		parent: f.queueL2, stage: domain.StageL2, transcript: "t",
	})

	summary, err := f.proc.Run(context.Background(), domain.StageL2, "run-2")
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, domain.OutcomeRejectAtL2, summary.Rows[0].Outcome)

	// Rejected folders are not relocated; the status file carries the verdict.
	assert.Equal(t, f.queueL2, f.docs.ParentOf(folder))

	final, err := f.store.GetFinalDecision(context.Background(), "bob-lee", "backend-engineer")
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, domain.FinalDecisionReject, final.Decision)
	assert.Equal(t, domain.NextActionFeedback, final.NextAction)
}

func TestProcessorL2HoldSkipsFinalDecision(t *testing.T) {
	f := newFixture(t, l2Response(t, 70, "maybe", "good", ""))
	f.addCandidate(t, "Carol Wu", candidateOpts{
		parent: f.queueL2, stage: domain.StageL2, transcript: "t",
	})

	summary, err := f.proc.Run(context.Background(), domain.StageL2, "run-2")
	require.NoError(t, err)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, domain.OutcomeHoldExecReview, summary.Rows[0].Outcome)

	final, err := f.store.GetFinalDecision(context.Background(), "carol-wu", "backend-engineer")
	require.NoError(t, err)
	assert.Nil(t, final)
}

func TestProcessorUnconfiguredRole(t *testing.T) {
	f := newFixture(t)
	f.proc.cfg.Roles = []string{"Unknown Role"}

	summary, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSeen)
}

func TestProcessorRejectsNonEvaluationStage(t *testing.T) {
	f := newFixture(t)
	_, err := f.proc.Run(context.Background(), domain.StageHold, "run-1")
	require.Error(t, err)
}

func TestProcessorHooksFire(t *testing.T) {
	f := newFixture(t, l1Response(t, 85, "proceed"))
	f.addCandidate(t, "Alice Chen", candidateOpts{transcript: "t"})
	f.addCandidate(t, "Bob Lee", candidateOpts{}) // gated

	var rows, gated int
	f.proc.hooks = Hooks{
		OnRow:   func(context.Context, string, domain.Stage, domain.CandidateRow) { rows++ },
		OnGated: func(context.Context, string, domain.Stage, domain.CandidateRow) { gated++ },
	}

	_, err := f.proc.Run(context.Background(), domain.StageL1, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, gated)
}
