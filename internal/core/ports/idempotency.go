package ports

import "context"

// IdempotencyState is what Reserve found for a key.
type IdempotencyState int

const (
	// IdempotencyNew means the key was free and is now held as pending.
	IdempotencyNew IdempotencyState = iota
	// IdempotencyPending means another request holding the key has not finished.
	IdempotencyPending
	// IdempotencyDone means a request with the key already succeeded.
	IdempotencyDone
)

// IdempotencyStore remembers client-supplied idempotency keys.
type IdempotencyStore interface {
	// Reserve holds key as pending when it is free, otherwise reports the
	// state left by the request that holds it.
	Reserve(ctx context.Context, key string) (IdempotencyState, error)
	// Complete marks a held key as done so that later requests replay it.
	Complete(ctx context.Context, key string) error
	// Release forgets key so that a failed request may be retried.
	Release(ctx context.Context, key string) error
}
