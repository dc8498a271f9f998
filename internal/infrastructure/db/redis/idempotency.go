package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfkeep/library-api/internal/core/ports"
)

const (
	idempotencyPrefix     = "idem:"
	defaultIdempotencyTTL = 24 * time.Hour

	statePending = "pending"
	stateDone    = "done"
)

// IdempotencyStore implements ports.IdempotencyStore. A key is reserved with
// SETNX as "pending", flipped to "done" on success and expires after ttl.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve holds key as pending when it is free. Otherwise it reports whether
// the holder is still running or already finished.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (ports.IdempotencyState, error) {
	k := s.key(key)
	// Two attempts: the holder may expire or be released between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, statePending, s.ttl).Result()
		if err != nil {
			return ports.IdempotencyNew, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return ports.IdempotencyNew, nil
		}

		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return ports.IdempotencyNew, fmt.Errorf("idempotency reserve: %w", err)
		}
		return stateOf(val), nil
	}
	return ports.IdempotencyPending, nil
}

// Complete marks key as done without touching its expiry.
func (s *IdempotencyStore) Complete(ctx context.Context, key string) error {
	err := s.client.SetArgs(ctx, s.key(key), stateDone, redis.SetArgs{KeepTTL: true}).Err()
	if err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation so the same key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return idempotencyPrefix + k
}

func stateOf(val string) ports.IdempotencyState {
	if val == stateDone {
		return ports.IdempotencyDone
	}
	return ports.IdempotencyPending
}
