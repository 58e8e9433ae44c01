// Package idempotency remembers which booking a client request key already
// produced, so a retried create returns the original booking.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
)

const (
	keyPrefix    = "idem:booking:"
	pendingValue = "pending"
)

// ErrInProgress is returned while another request holds the same key.
var ErrInProgress = domain.Conflict("request_in_progress", "a request with this idempotency key is still being processed")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Reserve claims key for a new request. When the key already completed,
// the stored booking id is returned with done=true.
func (s *Store) Reserve(ctx context.Context, key string) (uuid.UUID, bool, error) {
	k := keyPrefix + key

	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.rdb.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return uuid.Nil, false, nil
		}

		val, err := s.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("read idempotency key: %w", err)
		}
		if val == pendingValue {
			return uuid.Nil, false, ErrInProgress
		}

		id, err := uuid.Parse(val)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("corrupt idempotency value for %s: %w", key, err)
		}
		return id, true, nil
	}

	return uuid.Nil, false, ErrInProgress
}

// Complete records the booking produced for key.
func (s *Store) Complete(ctx context.Context, key string, bookingID uuid.UUID) error {
	if err := s.rdb.Set(ctx, keyPrefix+key, bookingID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release frees key after a failed request so the client may retry.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
