package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Minute), mr
}

func TestReserveCompleteReplay(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, done, err := s.Reserve(ctx, "c1:k1")
	require.NoError(t, err)
	assert.False(t, done)

	_, _, err = s.Reserve(ctx, "c1:k1")
	assert.ErrorIs(t, err, ErrInProgress)
	assert.True(t, domain.IsConflict(err))

	id := uuid.New()
	require.NoError(t, s.Complete(ctx, "c1:k1", id))

	got, done, err := s.Reserve(ctx, "c1:k1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, id, got)
}

func TestReleaseAllowsRetry(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, _, err := s.Reserve(ctx, "c1:k2")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "c1:k2"))

	_, done, err := s.Reserve(ctx, "c1:k2")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestKeysExpire(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, _, err := s.Reserve(ctx, "c1:k3")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"c1:k3"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(keyPrefix+"c1:k3"))

	_, done, err := s.Reserve(ctx, "c1:k3")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestCorruptValue(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set(keyPrefix+"c1:k4", "garbage"))

	_, _, err := s.Reserve(context.Background(), "c1:k4")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestPing(t *testing.T) {
	s, mr := newStore(t)
	assert.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}
