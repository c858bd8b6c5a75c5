// Package memory is the long-lived talent memory: per-candidate profiles,
// idempotent evaluation events, per-role rubrics, and terminal decisions.
// Backed by Redis; every write is either an idempotent append guarded by a
// uniqueness key or a last-writer-wins upsert, so at-least-once batch
// retries are safe.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hithonix/hireflow/internal/domain"
)

// maxStoredEvents bounds each candidate's event list. Context assembly only
// reads the newest few; the rest exists for audits.
const maxStoredEvents = 50

// Store is the talent-memory contract consumed by the batch pipeline.
type Store interface {
	// UpsertProfile writes the candidate profile, last writer wins.
	UpsertProfile(ctx context.Context, p *domain.CandidateProfile) error

	// GetProfile returns nil without error when no profile exists.
	GetProfile(ctx context.Context, candidateKey, roleKey string) (*domain.CandidateProfile, error)

	// AppendEvent appends exactly once per (RunID, CandidateKey, Stage).
	// Returns false when an event for that key already exists; the
	// duplicate is dropped, not an error.
	AppendEvent(ctx context.Context, e *domain.CandidateEvent) (bool, error)

	// RecentEvents returns up to limit events, most recent first.
	RecentEvents(ctx context.Context, candidateKey, roleKey string, limit int) ([]domain.CandidateEvent, error)

	// SeedRoleProfile writes the role profile only when none exists yet.
	// Returns false when a profile was already present.
	SeedRoleProfile(ctx context.Context, rp *domain.RoleProfile) (bool, error)

	// GetRoleProfile returns nil without error when no profile exists.
	GetRoleProfile(ctx context.Context, roleKey string) (*domain.RoleProfile, error)

	// UpsertFinalDecision writes the terminal verdict, last writer wins.
	UpsertFinalDecision(ctx context.Context, rec *domain.FinalDecisionRecord) error

	// GetFinalDecision returns nil without error when no decision exists.
	GetFinalDecision(ctx context.Context, candidateKey, roleKey string) (*domain.FinalDecisionRecord, error)
}

// RedisStore implements Store on a Redis client. Keys are namespaced under
// a configurable prefix so several deployments can share an instance.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store with the given key prefix. An empty prefix
// defaults to "hireflow".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "hireflow"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) profileKey(candidateKey, roleKey string) string {
	return fmt.Sprintf("%s:profile:%s:%s", s.prefix, candidateKey, roleKey)
}

func (s *RedisStore) eventsKey(candidateKey, roleKey string) string {
	return fmt.Sprintf("%s:events:%s:%s", s.prefix, candidateKey, roleKey)
}

func (s *RedisStore) eventMarkerKey(e *domain.CandidateEvent) string {
	return fmt.Sprintf("%s:event:%s:%s:%s", s.prefix, e.RunID, e.CandidateKey, e.Stage)
}

func (s *RedisStore) roleProfileKey(roleKey string) string {
	return fmt.Sprintf("%s:roleprofile:%s", s.prefix, roleKey)
}

func (s *RedisStore) finalKey(candidateKey, roleKey string) string {
	return fmt.Sprintf("%s:final:%s:%s", s.prefix, candidateKey, roleKey)
}

// UpsertProfile writes the candidate profile, last writer wins.
func (s *RedisStore) UpsertProfile(ctx context.Context, p *domain.CandidateProfile) error {
	p.UpdatedAt = time.Now().UTC()
	return s.setJSON(ctx, s.profileKey(p.CandidateKey, p.RoleKey), p)
}

// GetProfile returns nil without error when no profile exists.
func (s *RedisStore) GetProfile(ctx context.Context, candidateKey, roleKey string) (*domain.CandidateProfile, error) {
	var p domain.CandidateProfile
	ok, err := s.getJSON(ctx, s.profileKey(candidateKey, roleKey), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// AppendEvent appends exactly once per (RunID, CandidateKey, Stage). The
// uniqueness marker is claimed with SETNX before the list push, so
// concurrent or retried writers agree on a single winner.
func (s *RedisStore) AppendEvent(ctx context.Context, e *domain.CandidateEvent) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	claimed, err := s.client.SetNX(ctx, s.eventMarkerKey(e), 1, 0).Result()
	if err != nil {
		return false, fmt.Errorf("claim event marker: %w", err)
	}
	if !claimed {
		return false, nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("marshal event: %w", err)
	}

	key := s.eventsKey(e.CandidateKey, e.RoleKey)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxStoredEvents-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("append event: %w", err)
	}
	return true, nil
}

// RecentEvents returns up to limit events, most recent first.
func (s *RedisStore) RecentEvents(ctx context.Context, candidateKey, roleKey string, limit int) ([]domain.CandidateEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, s.eventsKey(candidateKey, roleKey), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	events := make([]domain.CandidateEvent, 0, len(raw))
	for _, item := range raw {
		var e domain.CandidateEvent
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}

// SeedRoleProfile writes the role profile only when none exists yet.
func (s *RedisStore) SeedRoleProfile(ctx context.Context, rp *domain.RoleProfile) (bool, error) {
	rp.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(rp)
	if err != nil {
		return false, fmt.Errorf("marshal role profile: %w", err)
	}
	seeded, err := s.client.SetNX(ctx, s.roleProfileKey(rp.RoleKey), payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("seed role profile: %w", err)
	}
	return seeded, nil
}

// GetRoleProfile returns nil without error when no profile exists.
func (s *RedisStore) GetRoleProfile(ctx context.Context, roleKey string) (*domain.RoleProfile, error) {
	var rp domain.RoleProfile
	ok, err := s.getJSON(ctx, s.roleProfileKey(roleKey), &rp)
	if err != nil || !ok {
		return nil, err
	}
	return &rp, nil
}

// UpsertFinalDecision writes the terminal verdict, last writer wins.
func (s *RedisStore) UpsertFinalDecision(ctx context.Context, rec *domain.FinalDecisionRecord) error {
	rec.DecidedAt = time.Now().UTC()
	return s.setJSON(ctx, s.finalKey(rec.CandidateKey, rec.RoleKey), rec)
}

// GetFinalDecision returns nil without error when no decision exists.
func (s *RedisStore) GetFinalDecision(ctx context.Context, candidateKey, roleKey string) (*domain.FinalDecisionRecord, error) {
	var rec domain.FinalDecisionRecord
	ok, err := s.getJSON(ctx, s.finalKey(candidateKey, roleKey), &rec)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
