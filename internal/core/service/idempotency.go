package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shelfkeep/library-api/internal/core/ports"
)

// idempotencyGuard wraps an optional IdempotencyStore. A nil store disables
// idempotency handling entirely.
type idempotencyGuard struct {
	store ports.IdempotencyStore
	log   zerolog.Logger
}

// scopedKey namespaces a client key by operation and user so that two users
// (or two operations) never collide on the same header value.
func scopedKey(scope string, userID uuid.UUID, key string) string {
	if key == "" {
		return ""
	}
	return scope + ":" + userID.String() + ":" + key
}

// reserve reports the state found for key and whether this request now holds
// it. Store failures are logged and the request proceeds as if no key had been
// supplied.
func (g idempotencyGuard) reserve(ctx context.Context, key string) (state ports.IdempotencyState, held bool) {
	if g.store == nil || key == "" {
		return ports.IdempotencyNew, false
	}
	state, err := g.store.Reserve(ctx, key)
	if err != nil {
		g.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency check failed, processing anyway")
		return ports.IdempotencyNew, false
	}
	return state, state == ports.IdempotencyNew
}

// complete marks a held key as done. On failure the key stays pending until
// it expires, so retries get ErrDuplicateRequest rather than a second write.
func (g idempotencyGuard) complete(ctx context.Context, key string) {
	if err := g.store.Complete(ctx, key); err != nil {
		g.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to complete idempotency key")
	}
}

func (g idempotencyGuard) release(ctx context.Context, key string) {
	if err := g.store.Release(ctx, key); err != nil {
		g.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}
