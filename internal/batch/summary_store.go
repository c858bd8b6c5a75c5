// Package batch drives the per-candidate pipeline for a stage run: gate,
// evaluation, decision, memory, routing, and summary accounting. Every
// candidate is processed in isolation; one failure never aborts the batch.
package batch

import (
	"sync"

	"github.com/hithonix/hireflow/internal/domain"
)

// SummaryStore publishes the finished summary of each stage run. Lifecycle:
// Publish exactly once per completed run, Latest read by any number of
// callers, Reset only from test harnesses. Implementations must treat the
// published summary as frozen.
type SummaryStore interface {
	// Publish stores the summary for its stage, returning
	// domain.ErrSummaryFrozen when the same run was already published.
	Publish(summary *domain.BatchSummary) error

	// Latest returns the most recent summary for a stage, or nil.
	Latest(stage domain.Stage) *domain.BatchSummary
}

// InMemorySummaryStore keeps the latest summary per stage in process memory.
type InMemorySummaryStore struct {
	mu     sync.RWMutex
	latest map[domain.Stage]*domain.BatchSummary
	runs   map[string]bool
}

// NewInMemorySummaryStore creates an empty store.
func NewInMemorySummaryStore() *InMemorySummaryStore {
	return &InMemorySummaryStore{
		latest: make(map[domain.Stage]*domain.BatchSummary),
		runs:   make(map[string]bool),
	}
}

// Publish implements SummaryStore. A run id can be published once; the
// summary replaces the stage's previous run as the latest.
func (s *InMemorySummaryStore) Publish(summary *domain.BatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs[summary.RunID] {
		return domain.ErrSummaryFrozen
	}
	s.runs[summary.RunID] = true
	s.latest[summary.Stage] = summary
	return nil
}

// Latest implements SummaryStore.
func (s *InMemorySummaryStore) Latest(stage domain.Stage) *domain.BatchSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest[stage]
}

// Reset clears all published runs. Test harnesses only.
func (s *InMemorySummaryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = make(map[domain.Stage]*domain.BatchSummary)
	s.runs = make(map[string]bool)
}
