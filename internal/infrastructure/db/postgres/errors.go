package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names declared in migrations/.
const (
	constraintUsersEmail      = "users_email_key"
	constraintCheckoutsBook   = "checkouts_book_fk"
	constraintOpenCheckoutIdx = "checkouts_open_book_idx"
)

// constraintViolation reports the SQLSTATE code and constraint name carried by
// err, or empty strings when err is not a server-side constraint error.
func constraintViolation(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
