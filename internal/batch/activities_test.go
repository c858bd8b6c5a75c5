package batch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hithonix/hireflow/internal/domain"
	pkgactivity "github.com/hithonix/hireflow/pkg/activity"
	"github.com/hithonix/hireflow/pkg/events"
)

// capturingSink records every envelope it receives.
type capturingSink struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func (s *capturingSink) Append(_ context.Context, e events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopes = append(s.envelopes, e)
	return nil
}

func (s *capturingSink) byType(eventType string) []events.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Envelope
	for _, e := range s.envelopes {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestRunEvaluationBatchEmitsEvents(t *testing.T) {
	f := newFixture(t, l1Response(t, 85, "proceed"))
	f.addCandidate(t, "Alice Chen", candidateOpts{transcript: "t"})
	f.addCandidate(t, "Bob Lee", candidateOpts{}) // gated, no transcript

	sink := &capturingSink{}
	summaries := NewInMemorySummaryStore()
	acts := NewActivities(pkgactivity.NewBaseActivities(sink), f.proc, summaries)

	summary, err := acts.RunEvaluationBatch(context.Background(), RunStageInput{
		Stage: domain.StageL1,
		RunID: "run-1",
	})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalSeen)

	evaluated := sink.byType(events.TypeCandidateEvaluated)
	require.Len(t, evaluated, 1)
	var payload CandidateEvaluatedPayload
	require.NoError(t, json.Unmarshal(evaluated[0].Payload, &payload))
	assert.Equal(t, "Alice Chen", payload.Candidate)
	assert.Equal(t, domain.OutcomeMoveToL2, payload.Outcome)

	gated := sink.byType(events.TypeCandidateGated)
	require.Len(t, gated, 1)

	completed := sink.byType(events.TypeBatchCompleted)
	require.Len(t, completed, 1)
	var batchPayload BatchCompletedPayload
	require.NoError(t, json.Unmarshal(completed[0].Payload, &batchPayload))
	assert.Equal(t, 1, batchPayload.Evaluated)
	assert.Equal(t, 1, batchPayload.Gated)

	// The summary is published and readable as the stage's latest.
	assert.Same(t, summary, summaries.Latest(domain.StageL1))
}

func TestRunEvaluationBatchValidatesInput(t *testing.T) {
	f := newFixture(t)
	acts := NewActivities(pkgactivity.NewBaseActivities(nil), f.proc, NewInMemorySummaryStore())

	_, err := acts.RunEvaluationBatch(context.Background(), RunStageInput{Stage: domain.StageHold, RunID: "r"})
	require.Error(t, err)

	_, err = acts.RunEvaluationBatch(context.Background(), RunStageInput{Stage: domain.StageL1})
	require.Error(t, err)
}

func TestSummaryStorePublishOnce(t *testing.T) {
	store := NewInMemorySummaryStore()

	first := &domain.BatchSummary{RunID: "run-1", Stage: domain.StageL1, TotalSeen: 3}
	require.NoError(t, store.Publish(first))

	dup := &domain.BatchSummary{RunID: "run-1", Stage: domain.StageL1, TotalSeen: 9}
	err := store.Publish(dup)
	require.ErrorIs(t, err, domain.ErrSummaryFrozen)

	// The frozen first summary survives the duplicate publish.
	assert.Equal(t, 3, store.Latest(domain.StageL1).TotalSeen)
	assert.Nil(t, store.Latest(domain.StageL2))

	second := &domain.BatchSummary{RunID: "run-2", Stage: domain.StageL1, TotalSeen: 5}
	require.NoError(t, store.Publish(second))
	assert.Equal(t, 5, store.Latest(domain.StageL1).TotalSeen)
}
