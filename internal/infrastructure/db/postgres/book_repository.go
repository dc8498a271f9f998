package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

const dialectPostgres = "postgres"

const insertBookQuery = `
	INSERT INTO books (title, author, isbn, description, user_id)
	VALUES ($1, $2, $3, $4, $5)`

// selectBookColumns joins the owner and, when one exists, the open checkout
// and its borrower. Only open checkouts may match the LEFT JOIN.
const selectBookColumns = `
	SELECT
		b.book_id,
		b.title,
		b.author,
		b.isbn,
		b.description,
		u.user_id AS owned_by,
		u.name AS owner_name,
		c.checkout_id,
		c.checked_out_by,
		cu.name AS checked_out_by_name,
		c.checked_out_at
	FROM books AS b
	INNER JOIN users AS u ON u.user_id = b.user_id
	LEFT JOIN checkouts AS c ON c.book_id = b.book_id AND c.returned_at IS NULL
	LEFT JOIN users AS cu ON cu.user_id = c.checked_out_by`

const selectBooksByIDsQuery = selectBookColumns + `
	WHERE b.book_id IN (SELECT * FROM UNNEST($1::uuid[]))
	ORDER BY b.created_at DESC`

const selectBookByIDQuery = selectBookColumns + `
	WHERE b.book_id = $1`

const updateBookQuery = `
	UPDATE books
	SET title = $1, author = $2, isbn = $3, description = $4
	WHERE book_id = $5
	AND user_id = $6`

const deleteBookQuery = `
	DELETE FROM books
	WHERE book_id = $1
	AND user_id = $2`

// BookRepository is the PostgreSQL implementation of ports.BookRepository.
type BookRepository struct {
	db *sqlx.DB
}

func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, cmd domain.CreateBook, ownerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, insertBookQuery, cmd.Title, cmd.Author, cmd.ISBN, cmd.Description, ownerID)
	if err != nil {
		return domain.NewPersistenceError("insert book", err)
	}
	return nil
}

// FindAll reads the id window (with the window-computed total) and then the
// details for exactly those ids. Both reads share one snapshot. An empty
// window yields Total == 0.
func (r *BookRepository) FindAll(ctx context.Context, opts domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	list := domain.PaginatedList[domain.Book]{
		Limit:  opts.Limit,
		Offset: opts.Offset,
		Items:  []domain.Book{},
	}

	windowQuery, args, err := buildBookWindowQuery(opts)
	if err != nil {
		return list, domain.NewPersistenceError("build book window query", err)
	}

	txOpts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err = WithTx(ctx, r.db, txOpts, func(ctx context.Context, tx DBTX) error {
		var window []bookWindowRow
		if err := tx.SelectContext(ctx, &window, windowQuery, args...); err != nil {
			return err
		}
		if len(window) == 0 {
			return nil
		}

		ids := make([]string, len(window))
		for i, w := range window {
			ids[i] = w.BookID.String()
		}

		var rows []bookRow
		if err := tx.SelectContext(ctx, &rows, selectBooksByIDsQuery, pq.Array(ids)); err != nil {
			return err
		}

		list.Total = window[0].Total
		for _, row := range rows {
			list.Items = append(list.Items, row.toDomain())
		}
		return nil
	})
	if err != nil {
		return domain.PaginatedList[domain.Book]{}, domain.NewPersistenceError("select books", err)
	}
	return list, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	var row bookRow
	if err := r.db.GetContext(ctx, &row, selectBookByIDQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewPersistenceError("select book", err)
	}
	book := row.toDomain()
	return &book, nil
}

func (r *BookRepository) Update(ctx context.Context, cmd domain.UpdateBook) error {
	res, err := r.db.ExecContext(ctx, updateBookQuery,
		cmd.Title, cmd.Author, cmd.ISBN, cmd.Description, cmd.BookID, cmd.RequestedUser)
	if err != nil {
		return domain.NewPersistenceError("update book", err)
	}
	return requireAffected(res, "update book", "specified book not found")
}

func (r *BookRepository) Delete(ctx context.Context, cmd domain.DeleteBook) error {
	res, err := r.db.ExecContext(ctx, deleteBookQuery, cmd.BookID, cmd.RequestedUser)
	if err != nil {
		return domain.NewPersistenceError("delete book", err)
	}
	return requireAffected(res, "delete book", "specified book not found")
}

// buildBookWindowQuery selects one page of book ids, newest first, with
// COUNT(*) OVER() attached to every row.
func buildBookWindowQuery(opts domain.BookListOptions) (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		Select(
			goqu.L("COUNT(*) OVER()").As("total"),
			goqu.I("b.book_id"),
		).
		Order(goqu.I("b.created_at").Desc()).
		Limit(uint(opts.Limit)).
		Offset(uint(opts.Offset)).
		Prepared(true).
		ToSQL()
}

// requireAffected turns "zero rows affected" into an EntityNotFoundError.
func requireAffected(res sql.Result, op, notFoundMsg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewPersistenceError(op, err)
	}
	if n < 1 {
		return domain.NewEntityNotFound(notFoundMsg)
	}
	return nil
}
