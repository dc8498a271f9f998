package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookOwner is the user a book is registered under.
type BookOwner struct {
	ID   uuid.UUID
	Name string
}

// BookCheckout describes the open checkout of a book, if any.
type BookCheckout struct {
	CheckoutID   uuid.UUID
	CheckedOutBy BookOwner
	CheckedOutAt time.Time
}

// Book is a registered library book. Checkout is nil unless the book is
// currently lent out.
type Book struct {
	ID          uuid.UUID
	Title       string
	Author      string
	ISBN        string
	Description string
	Owner       BookOwner
	Checkout    *BookCheckout
}

// IsCheckedOut reports whether an open checkout exists for the book.
func (b *Book) IsCheckedOut() bool {
	return b.Checkout != nil
}

// CreateBook is the command used to register a new book.
type CreateBook struct {
	Title       string
	Author      string
	ISBN        string
	Description string
}

// UpdateBook replaces the editable fields of a book owned by RequestedUser.
type UpdateBook struct {
	BookID        uuid.UUID
	Title         string
	Author        string
	ISBN          string
	Description   string
	RequestedUser uuid.UUID
}

// DeleteBook removes a book owned by RequestedUser.
type DeleteBook struct {
	BookID        uuid.UUID
	RequestedUser uuid.UUID
}

// BookListOptions selects a window of the book list, newest first.
type BookListOptions struct {
	Limit  int64
	Offset int64
}
