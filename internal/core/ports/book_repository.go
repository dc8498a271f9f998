package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	Create(ctx context.Context, cmd domain.CreateBook, ownerID uuid.UUID) error
	// FindAll returns a window of books, newest first, with the total size of
	// the full set.
	FindAll(ctx context.Context, opts domain.BookListOptions) (domain.PaginatedList[domain.Book], error)
	// FindByID returns nil, nil when no book matches.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	// Update and Delete only touch rows owned by the requesting user and
	// return an EntityNotFoundError when nothing matched.
	Update(ctx context.Context, cmd domain.UpdateBook) error
	Delete(ctx context.Context, cmd domain.DeleteBook) error
}
