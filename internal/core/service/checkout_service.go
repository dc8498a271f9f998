package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

// CheckoutService lends books out and takes them back.
type CheckoutService struct {
	books     ports.BookRepository
	checkouts ports.CheckoutRepository
	idem      idempotencyGuard
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCheckoutService returns a CheckoutService. idem may be nil.
func NewCheckoutService(
	books ports.BookRepository,
	checkouts ports.CheckoutRepository,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		books:     books,
		checkouts: checkouts,
		idem:      idempotencyGuard{store: idem, log: logger},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CheckoutBook opens a checkout of in.BookID for in.UserID.
//
// A replayed idempotency key resolves to the user's current open checkout of
// the book; if that checkout no longer exists the replay is rejected with
// ErrDuplicateRequest rather than lending the book a second time. So is a key
// whose first request is still running.
func (s *CheckoutService) CheckoutBook(ctx context.Context, in ports.CheckoutBookInput) (*ports.CheckoutResult, error) {
	key := scopedKey("checkouts:"+in.BookID.String(), in.UserID, in.IdempotencyKey)
	state, held := s.idem.reserve(ctx, key)
	switch state {
	case ports.IdempotencyDone:
		return s.replayCheckout(ctx, in)
	case ports.IdempotencyPending:
		return nil, domain.ErrDuplicateRequest
	}

	id, err := s.checkouts.Create(ctx, domain.CreateCheckout{
		BookID:       in.BookID,
		CheckedOutBy: in.UserID,
		CheckedOutAt: s.now(),
	})
	if err != nil {
		if held {
			s.idem.release(ctx, key)
		}
		return nil, fmt.Errorf("checkout book: %w", err)
	}
	if held {
		s.idem.complete(ctx, key)
	}

	s.logger.Info().
		Str("book_id", in.BookID.String()).
		Str("user_id", in.UserID.String()).
		Str("checkout_id", id.String()).
		Msg("book checked out")

	return &ports.CheckoutResult{CheckoutID: id}, nil
}

func (s *CheckoutService) replayCheckout(ctx context.Context, in ports.CheckoutBookInput) (*ports.CheckoutResult, error) {
	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		return nil, fmt.Errorf("checkout book: %w", err)
	}
	if book == nil || !book.IsCheckedOut() || book.Checkout.CheckedOutBy.ID != in.UserID {
		return nil, domain.ErrDuplicateRequest
	}

	s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("checkout_id", book.Checkout.CheckoutID.String()).Msg("idempotent replay")
	return &ports.CheckoutResult{CheckoutID: book.Checkout.CheckoutID, AlreadyExisted: true}, nil
}

// ReturnBook closes the open checkout, recording in.UserID as the returner.
func (s *CheckoutService) ReturnBook(ctx context.Context, in ports.ReturnBookInput) error {
	err := s.checkouts.UpdateReturned(ctx, domain.UpdateReturned{
		CheckoutID: in.CheckoutID,
		BookID:     in.BookID,
		ReturnedBy: in.UserID,
		ReturnedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("return book: %w", err)
	}

	s.logger.Info().
		Str("book_id", in.BookID.String()).
		Str("checkout_id", in.CheckoutID.String()).
		Str("user_id", in.UserID.String()).
		Msg("book returned")
	return nil
}

func (s *CheckoutService) ListOpenCheckouts(ctx context.Context) ([]domain.Checkout, error) {
	items, err := s.checkouts.FindUnreturnedAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open checkouts: %w", err)
	}
	return items, nil
}

// CheckoutHistory lists every checkout of a book, newest first.
func (s *CheckoutService) CheckoutHistory(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("checkout history: %w", err)
	}
	if book == nil {
		return nil, domain.NewEntityNotFound("book not found")
	}

	items, err := s.checkouts.FindHistoryByBookID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("checkout history: %w", err)
	}
	return items, nil
}
