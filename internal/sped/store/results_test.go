package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spedlens/spedlens/internal/sped/analysis"
)

func newTestStore(t *testing.T) (*Results, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewResults(client, time.Hour), mr
}

func TestResultsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	result := analysis.Result{RunID: "run-1", Meta: analysis.Meta{Reliability: analysis.ReliabilityHigh}}
	require.NoError(t, s.Save(ctx, result))

	env, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, StatusComplete, env.Status)
	require.NotNil(t, env.Result)
	require.Equal(t, "run-1", env.Result.RunID)
	require.Equal(t, analysis.ReliabilityHigh, env.Result.Meta.Reliability)
}

func TestResultsPendingThenComplete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.MarkPending(ctx, "run-2"))
	env, err := s.Get(ctx, "run-2")
	require.NoError(t, err)
	require.Equal(t, StatusPending, env.Status)
	require.Nil(t, env.Result)

	require.NoError(t, s.Save(ctx, analysis.Result{RunID: "run-2"}))
	env, err = s.Get(ctx, "run-2")
	require.NoError(t, err)
	require.Equal(t, StatusComplete, env.Status)
}

func TestResultsMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResultsExpire(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, analysis.Result{RunID: "run-3"}))
	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, "run-3")
	require.ErrorIs(t, err, ErrNotFound)
}
