package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

// CheckoutRepository defines persistence operations for checkouts.
type CheckoutRepository interface {
	// Create opens a checkout and returns its id. It fails with
	// ErrBookAlreadyCheckedOut when the book already has an open checkout.
	Create(ctx context.Context, cmd domain.CreateCheckout) (uuid.UUID, error)
	// UpdateReturned closes an open checkout.
	UpdateReturned(ctx context.Context, cmd domain.UpdateReturned) error
	FindUnreturnedAll(ctx context.Context) ([]domain.Checkout, error)
	FindHistoryByBookID(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error)
}
