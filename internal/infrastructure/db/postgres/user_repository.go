package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

const insertUserQuery = `
	INSERT INTO users (name, email, password_hash, role_id)
	SELECT $1, $2, $3, r.role_id FROM roles AS r WHERE r.name = $4
	RETURNING user_id, created_at`

const selectUserColumns = `
	SELECT u.user_id, u.name, u.email, u.password_hash, r.name AS role, u.created_at
	FROM users AS u
	INNER JOIN roles AS r ON r.role_id = u.role_id`

const selectUserByEmailQuery = selectUserColumns + `
	WHERE u.email = $1`

const selectUserByIDQuery = selectUserColumns + `
	WHERE u.user_id = $1`

const selectUsersQuery = selectUserColumns + `
	ORDER BY u.created_at`

// UserRepository is the PostgreSQL implementation of ports.UserRepository.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, cmd domain.CreateUser) (*domain.User, error) {
	var inserted struct {
		UserID    uuid.UUID `db:"user_id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := r.db.GetContext(ctx, &inserted, insertUserQuery, cmd.Name, cmd.Email, cmd.PasswordHash, cmd.Role)
	if err != nil {
		if code, constraint := constraintViolation(err); code == codeUniqueViolation && constraint == constraintUsersEmail {
			return nil, domain.ErrUserExists
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewPersistenceError("insert user", fmt.Errorf("role %q is not seeded", cmd.Role))
		}
		return nil, domain.NewPersistenceError("insert user", err)
	}

	return &domain.User{
		ID:           inserted.UserID,
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: cmd.PasswordHash,
		Role:         cmd.Role,
		CreatedAt:    inserted.CreatedAt,
	}, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUserByEmailQuery, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, selectUserByIDQuery, id)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, selectUsersQuery); err != nil {
		return nil, domain.NewPersistenceError("select users", err)
	}
	out := make([]domain.User, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewPersistenceError("select user", err)
	}
	u := row.toDomain()
	return &u, nil
}
