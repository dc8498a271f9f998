package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound is matched by every *EntityNotFoundError.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")

	ErrDuplicateRequest = errors.New("idempotency key already used")
)

// EntityNotFoundError reports that a targeted row is absent, or that it exists
// but is not owned by the requesting user. The two cases are deliberately one kind.
type EntityNotFoundError struct {
	Message string
}

// NewEntityNotFound returns an EntityNotFoundError carrying msg.
func NewEntityNotFound(msg string) error {
	return &EntityNotFoundError{Message: msg}
}

func (e *EntityNotFoundError) Error() string {
	return e.Message
}

func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

// PersistenceError wraps an underlying database failure with the operation that
// produced it. The cause is kept for logging and never rendered to clients.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err as a PersistenceError for op.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
