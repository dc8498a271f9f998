package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CheckoutState is derived from whether returned_at is set.
type CheckoutState string

const (
	CheckoutOpen     CheckoutState = "open"
	CheckoutReturned CheckoutState = "returned"
)

var ErrBookAlreadyCheckedOut = errors.New("book is already checked out")

// Checkout is a single lending of a book.
type Checkout struct {
	ID           uuid.UUID
	BookID       uuid.UUID
	CheckedOutBy uuid.UUID
	CheckedOutAt time.Time
	ReturnedBy   *uuid.UUID
	ReturnedAt   *time.Time
}

// State reports whether the checkout is still open.
func (c *Checkout) State() CheckoutState {
	if c.ReturnedAt == nil {
		return CheckoutOpen
	}
	return CheckoutReturned
}

// CreateCheckout opens a checkout of BookID for CheckedOutBy.
type CreateCheckout struct {
	BookID       uuid.UUID
	CheckedOutBy uuid.UUID
	CheckedOutAt time.Time
}

// UpdateReturned closes the open checkout identified by CheckoutID and BookID.
type UpdateReturned struct {
	CheckoutID uuid.UUID
	BookID     uuid.UUID
	ReturnedBy uuid.UUID
	ReturnedAt time.Time
}
