// Package store persists analysis results in Redis so asynchronous runs can
// be fetched later. Results expire after the configured TTL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spedlens/spedlens/internal/sped/analysis"
)

// ErrNotFound is returned when no result exists for a run ID, or it expired.
var ErrNotFound = errors.New("store: result not found")

// Status values for a stored run.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
)

// Envelope wraps a result with its processing status. Pending envelopes hold
// no result yet.
type Envelope struct {
	Status string           `json:"status"`
	Result *analysis.Result `json:"result,omitempty"`
}

// Results reads and writes analysis results keyed by run ID.
type Results struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResults constructs the result store.
func NewResults(client *redis.Client, ttl time.Duration) *Results {
	return &Results{client: client, ttl: ttl}
}

func resultKey(runID string) string {
	return "spedlens:result:" + runID
}

// MarkPending records that a run was accepted but has not finished.
func (s *Results) MarkPending(ctx context.Context, runID string) error {
	return s.set(ctx, runID, Envelope{Status: StatusPending})
}

// Save stores a completed result under its run ID.
func (s *Results) Save(ctx context.Context, result analysis.Result) error {
	return s.set(ctx, result.RunID, Envelope{Status: StatusComplete, Result: &result})
}

func (s *Results) set(ctx context.Context, runID string, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("store: marshal result: %w", err)
	}
	if err := s.client.Set(ctx, resultKey(runID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store: set: %w", err)
	}
	return nil
}

// Get fetches the envelope for a run ID.
func (s *Results) Get(ctx context.Context, runID string) (Envelope, error) {
	raw, err := s.client.Get(ctx, resultKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Envelope{}, ErrNotFound
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("store: get: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("store: unmarshal result: %w", err)
	}
	return env, nil
}
