package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

const insertCheckoutQuery = `
	INSERT INTO checkouts (book_id, checked_out_by, checked_out_at)
	VALUES ($1, $2, $3)
	RETURNING checkout_id`

const updateReturnedQuery = `
	UPDATE checkouts
	SET returned_by = $1, returned_at = $2
	WHERE checkout_id = $3
	AND book_id = $4
	AND returned_at IS NULL`

const selectCheckoutColumns = `
	SELECT checkout_id, book_id, checked_out_by, checked_out_at, returned_by, returned_at
	FROM checkouts`

const selectUnreturnedQuery = selectCheckoutColumns + `
	WHERE returned_at IS NULL
	ORDER BY checked_out_at DESC`

const selectHistoryByBookQuery = selectCheckoutColumns + `
	WHERE book_id = $1
	ORDER BY checked_out_at DESC`

// CheckoutRepository is the PostgreSQL implementation of ports.CheckoutRepository.
type CheckoutRepository struct {
	db *sqlx.DB
}

func NewCheckoutRepository(db *sqlx.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Create inserts an open checkout. The partial unique index on open checkouts
// rejects a second one for the same book.
func (r *CheckoutRepository) Create(ctx context.Context, cmd domain.CreateCheckout) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, insertCheckoutQuery, cmd.BookID, cmd.CheckedOutBy, cmd.CheckedOutAt)
	if err == nil {
		return id, nil
	}

	switch code, constraint := constraintViolation(err); {
	case code == codeUniqueViolation && constraint == constraintOpenCheckoutIdx:
		return uuid.Nil, domain.ErrBookAlreadyCheckedOut
	case code == codeForeignKeyViolation && constraint == constraintCheckoutsBook:
		return uuid.Nil, domain.NewEntityNotFound("book not found")
	}
	return uuid.Nil, domain.NewPersistenceError("insert checkout", err)
}

func (r *CheckoutRepository) UpdateReturned(ctx context.Context, cmd domain.UpdateReturned) error {
	res, err := r.db.ExecContext(ctx, updateReturnedQuery, cmd.ReturnedBy, cmd.ReturnedAt, cmd.CheckoutID, cmd.BookID)
	if err != nil {
		return domain.NewPersistenceError("update checkout", err)
	}
	return requireAffected(res, "update checkout", "specified checkout not found")
}

func (r *CheckoutRepository) FindUnreturnedAll(ctx context.Context) ([]domain.Checkout, error) {
	return r.selectCheckouts(ctx, "select open checkouts", selectUnreturnedQuery)
}

func (r *CheckoutRepository) FindHistoryByBookID(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error) {
	return r.selectCheckouts(ctx, "select checkout history", selectHistoryByBookQuery, bookID)
}

func (r *CheckoutRepository) selectCheckouts(ctx context.Context, op, query string, args ...any) ([]domain.Checkout, error) {
	var rows []checkoutRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewPersistenceError(op, err)
	}
	out := make([]domain.Checkout, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
