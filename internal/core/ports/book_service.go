package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

// RegisterBookInput carries a new book and the user it is attributed to.
type RegisterBookInput struct {
	Book           domain.CreateBook
	OwnerID        uuid.UUID
	IdempotencyKey string
}

// ListBooksInput carries the raw pagination parameters of a list request.
// Zero values fall back to defaults in the service.
type ListBooksInput struct {
	Limit  int64
	Offset int64
}

// BookService exposes the book use cases to the transport layer.
type BookService interface {
	// RegisterBook reports replayed=true when the idempotency key was already used.
	RegisterBook(ctx context.Context, in RegisterBookInput) (replayed bool, err error)
	ListBooks(ctx context.Context, in ListBooksInput) (domain.PaginatedList[domain.Book], error)
	// GetBook returns an EntityNotFoundError when the book does not exist.
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	UpdateBook(ctx context.Context, cmd domain.UpdateBook) error
	DeleteBook(ctx context.Context, cmd domain.DeleteBook) error
}
