package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// BookService implements the book use cases on top of a BookRepository.
type BookService struct {
	repo   ports.BookRepository
	idem   idempotencyGuard
	logger zerolog.Logger
}

// NewBookService returns a BookService. idem may be nil.
func NewBookService(repo ports.BookRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *BookService {
	return &BookService{
		repo:   repo,
		idem:   idempotencyGuard{store: idem, log: logger},
		logger: logger,
	}
}

// RegisterBook stores a new book owned by in.OwnerID. When the idempotency key
// already succeeded for the same owner the call is a no-op and replayed is
// true. A key still held by an unfinished request yields ErrDuplicateRequest.
func (s *BookService) RegisterBook(ctx context.Context, in ports.RegisterBookInput) (bool, error) {
	key := scopedKey("books", in.OwnerID, in.IdempotencyKey)
	state, held := s.idem.reserve(ctx, key)
	switch state {
	case ports.IdempotencyDone:
		s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("owner_id", in.OwnerID.String()).Msg("idempotent replay")
		return true, nil
	case ports.IdempotencyPending:
		return false, domain.ErrDuplicateRequest
	}

	if err := s.repo.Create(ctx, in.Book, in.OwnerID); err != nil {
		if held {
			s.idem.release(ctx, key)
		}
		return false, fmt.Errorf("register book: %w", err)
	}
	if held {
		s.idem.complete(ctx, key)
	}

	s.logger.Info().Str("owner_id", in.OwnerID.String()).Str("isbn", in.Book.ISBN).Msg("book registered")
	return false, nil
}

// ListBooks returns one page of books, newest first. Limit is clamped to
// [1, maxListLimit] and negative offsets are treated as zero.
func (s *BookService) ListBooks(ctx context.Context, in ports.ListBooksInput) (domain.PaginatedList[domain.Book], error) {
	opts := domain.BookListOptions{Limit: in.Limit, Offset: in.Offset}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	list, err := s.repo.FindAll(ctx, opts)
	if err != nil {
		return domain.PaginatedList[domain.Book]{}, fmt.Errorf("list books: %w", err)
	}
	return list, nil
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, domain.NewEntityNotFound("book not found")
	}
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, cmd domain.UpdateBook) error {
	if err := s.repo.Update(ctx, cmd); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	s.logger.Info().Str("book_id", cmd.BookID.String()).Msg("book updated")
	return nil
}

func (s *BookService) DeleteBook(ctx context.Context, cmd domain.DeleteBook) error {
	if err := s.repo.Delete(ctx, cmd); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.logger.Info().Str("book_id", cmd.BookID.String()).Msg("book deleted")
	return nil
}
