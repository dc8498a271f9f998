package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/shelfkeep/library-api/internal/core/domain"
)

func TestUserHandler_Me(t *testing.T) {
	userID := uuid.New()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			if id != userID {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: id, Name: "alice", Role: domain.RoleUser}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/users/me", nil, &userID)
	if err := NewUserHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != userID.String() || resp["name"] != "alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUserHandler_Me_Unknown(t *testing.T) {
	userID := uuid.New()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) { return nil, domain.ErrUserNotFound },
	}

	c, _ := newTestContext(t, http.MethodGet, "/users/me", nil, &userID)
	if err := NewUserHandler(stub).Me(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{{Name: "a"}, {Name: "b"}}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/users", nil, nil)
	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
}
