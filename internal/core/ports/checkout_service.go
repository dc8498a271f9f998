package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

// CheckoutBookInput requests that BookID be lent to UserID.
type CheckoutBookInput struct {
	BookID         uuid.UUID
	UserID         uuid.UUID
	IdempotencyKey string
}

// CheckoutResult is returned after a checkout is opened.
type CheckoutResult struct {
	CheckoutID uuid.UUID
	// AlreadyExisted is true when the Idempotency-Key matched an earlier request.
	AlreadyExisted bool
}

// ReturnBookInput closes CheckoutID on behalf of UserID.
type ReturnBookInput struct {
	BookID     uuid.UUID
	CheckoutID uuid.UUID
	UserID     uuid.UUID
}

// CheckoutService exposes lending use cases.
type CheckoutService interface {
	CheckoutBook(ctx context.Context, in CheckoutBookInput) (*CheckoutResult, error)
	ReturnBook(ctx context.Context, in ReturnBookInput) error
	ListOpenCheckouts(ctx context.Context) ([]domain.Checkout, error)
	CheckoutHistory(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error)
}
