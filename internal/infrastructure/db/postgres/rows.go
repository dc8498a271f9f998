package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

type bookWindowRow struct {
	Total  int64     `db:"total"`
	BookID uuid.UUID `db:"book_id"`
}

type bookRow struct {
	BookID           uuid.UUID      `db:"book_id"`
	Title            string         `db:"title"`
	Author           string         `db:"author"`
	ISBN             string         `db:"isbn"`
	Description      string         `db:"description"`
	OwnedBy          uuid.UUID      `db:"owned_by"`
	OwnerName        string         `db:"owner_name"`
	CheckoutID       uuid.NullUUID  `db:"checkout_id"`
	CheckedOutBy     uuid.NullUUID  `db:"checked_out_by"`
	CheckedOutByName sql.NullString `db:"checked_out_by_name"`
	CheckedOutAt     sql.NullTime   `db:"checked_out_at"`
}

func (r bookRow) toDomain() domain.Book {
	b := domain.Book{
		ID:          r.BookID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Owner:       domain.BookOwner{ID: r.OwnedBy, Name: r.OwnerName},
	}
	if r.CheckoutID.Valid {
		b.Checkout = &domain.BookCheckout{
			CheckoutID:   r.CheckoutID.UUID,
			CheckedOutBy: domain.BookOwner{ID: r.CheckedOutBy.UUID, Name: r.CheckedOutByName.String},
			CheckedOutAt: r.CheckedOutAt.Time,
		}
	}
	return b
}

type checkoutRow struct {
	CheckoutID   uuid.UUID     `db:"checkout_id"`
	BookID       uuid.UUID     `db:"book_id"`
	CheckedOutBy uuid.UUID     `db:"checked_out_by"`
	CheckedOutAt time.Time     `db:"checked_out_at"`
	ReturnedBy   uuid.NullUUID `db:"returned_by"`
	ReturnedAt   sql.NullTime  `db:"returned_at"`
}

func (r checkoutRow) toDomain() domain.Checkout {
	c := domain.Checkout{
		ID:           r.CheckoutID,
		BookID:       r.BookID,
		CheckedOutBy: r.CheckedOutBy,
		CheckedOutAt: r.CheckedOutAt,
	}
	if r.ReturnedBy.Valid {
		by := r.ReturnedBy.UUID
		c.ReturnedBy = &by
	}
	if r.ReturnedAt.Valid {
		at := r.ReturnedAt.Time
		c.ReturnedAt = &at
	}
	return c
}

type userRow struct {
	UserID       uuid.UUID `db:"user_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.UserID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}
