package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, cmd domain.CreateUser) (*domain.User, error) {
	if _, exists := r.users[cmd.Email]; exists {
		return nil, domain.ErrUserExists
	}
	u := &domain.User{
		ID:           uuid.New(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: cmd.PasswordHash,
		Role:         cmd.Role,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.Email] = u
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "p"},
		{Name: "a", Email: "  ", Password: "p"},
		{Name: "a", Email: "a@example.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); err != domain.ErrInvalidCredentials {
			t.Fatalf("%+v: expected ErrInvalidCredentials, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "bob", Email: "bob@example.com", Password: "pass"})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "bob2", Email: "bob@example.com", Password: "pass2"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{Name: "carol", Email: "carol@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Name != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["user_id"] != registered.ID.String() {
		t.Fatalf("expected user_id %s, got %v", registered.ID, claims["user_id"])
	}
	if claims["role"] != domain.RoleUser {
		t.Fatalf("expected role %s, got %v", domain.RoleUser, claims["role"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "dave", Email: "dave@example.com", Password: "goodpass"})
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "dave", Email: "dave@example.com", Password: "goodpass"})

	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "pass")
	_, _, wrong := svc.Login(context.Background(), "dave@example.com", "badpass")
	if unknown != domain.ErrInvalidCredentials || wrong != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for both, got unknown=%v wrong=%v", unknown, wrong)
	}
}

func TestUserService_GetAndList(t *testing.T) {
	repo := newStubUserRepo()
	created, _ := repo.Create(context.Background(), domain.CreateUser{Name: "erin", Email: "erin@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(repo)

	got, err := svc.GetUser(context.Background(), created.ID)
	if err != nil || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user %+v err=%v", got, err)
	}
	if _, err := svc.GetUser(context.Background(), uuid.New()); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	all, _ := svc.ListUsers(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected 1 user, got %d", len(all))
	}
}
