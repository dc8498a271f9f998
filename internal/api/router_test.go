package api

import (
	"context"
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shelfkeep/library-api/internal/api/handler"
	"github.com/shelfkeep/library-api/internal/core/domain"
)

type stubUserService struct {
	users []domain.User
}

func (s *stubUserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Log:          zerolog.Nop(),
		JWTSecret:    "secret",
		UserService:  &stubUserService{users: []domain.User{{Name: "root", Role: domain.RoleAdmin}}},
		HealthChecks: map[string]handler.Pinger{"postgres": func(context.Context) error { return nil }},
		Registry:     prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"name":    "tester",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func serve(t *testing.T, h http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t)

	if rec := serve(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := serve(t, h, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
}

func TestRouter_BooksRequireAuth(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/books", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := stdjson.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "missing authorization header" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRouter_UsersAdminOnly(t *testing.T) {
	h := newTestRouter(t)

	if rec := serve(t, h, http.MethodGet, "/users", bearer(t, domain.RoleUser)); rec.Code != http.StatusForbidden {
		t.Fatalf("user role: expected 403, got %d", rec.Code)
	}

	rec := serve(t, h, http.MethodGet, "/users", bearer(t, domain.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin role: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"root"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_MetricsExposeHTTPCounters(t *testing.T) {
	h := newTestRouter(t)
	serve(t, h, http.MethodGet, "/books", "")

	rec := serve(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "library_requests_total") {
		t.Fatalf("expected echo request counter in exposition")
	}
}
