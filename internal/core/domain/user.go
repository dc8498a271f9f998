package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role names as seeded in the roles table.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User models a library account. Users own books and borrow them.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser carries the data needed to persist a new account.
// PasswordHash must already be hashed.
type CreateUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}
