package handler

import (
	"time"

	"github.com/google/uuid"
)

// bookRequest is the body of POST /books and PUT /books/:id.
type bookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	ISBN        string `json:"isbn" validate:"required,max=32"`
	Description string `json:"description" validate:"max=1024"`
}

type userRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type bookCheckoutView struct {
	ID           uuid.UUID `json:"id"`
	Borrower     userRef   `json:"borrower"`
	CheckedOutAt time.Time `json:"checked_out_at"`
}

// bookView is the wire shape of a book.
type bookView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	ISBN        string            `json:"isbn"`
	Description string            `json:"description"`
	Owner       userRef           `json:"owner"`
	Checkout    *bookCheckoutView `json:"checkout,omitempty"`
}

type checkoutCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

// checkoutView is the wire shape of a checkout in lists and history.
type checkoutView struct {
	ID           uuid.UUID  `json:"id"`
	BookID       uuid.UUID  `json:"book_id"`
	CheckedOutBy uuid.UUID  `json:"checked_out_by"`
	CheckedOutAt time.Time  `json:"checked_out_at"`
	ReturnedBy   *uuid.UUID `json:"returned_by,omitempty"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	State        string     `json:"state"`
}
