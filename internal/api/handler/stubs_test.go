package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shelfkeep/library-api/internal/api/middleware"
	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubBookService struct {
	registerFn func(ctx context.Context, in ports.RegisterBookInput) (bool, error)
	listFn     func(ctx context.Context, in ports.ListBooksInput) (domain.PaginatedList[domain.Book], error)
	getFn      func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	updateFn   func(ctx context.Context, cmd domain.UpdateBook) error
	deleteFn   func(ctx context.Context, cmd domain.DeleteBook) error
}

func (s *stubBookService) RegisterBook(ctx context.Context, in ports.RegisterBookInput) (bool, error) {
	return s.registerFn(ctx, in)
}

func (s *stubBookService) ListBooks(ctx context.Context, in ports.ListBooksInput) (domain.PaginatedList[domain.Book], error) {
	return s.listFn(ctx, in)
}

func (s *stubBookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookService) UpdateBook(ctx context.Context, cmd domain.UpdateBook) error {
	return s.updateFn(ctx, cmd)
}

func (s *stubBookService) DeleteBook(ctx context.Context, cmd domain.DeleteBook) error {
	return s.deleteFn(ctx, cmd)
}

type stubCheckoutService struct {
	checkoutFn func(ctx context.Context, in ports.CheckoutBookInput) (*ports.CheckoutResult, error)
	returnFn   func(ctx context.Context, in ports.ReturnBookInput) error
	listOpenFn func(ctx context.Context) ([]domain.Checkout, error)
	historyFn  func(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error)
}

func (s *stubCheckoutService) CheckoutBook(ctx context.Context, in ports.CheckoutBookInput) (*ports.CheckoutResult, error) {
	return s.checkoutFn(ctx, in)
}

func (s *stubCheckoutService) ReturnBook(ctx context.Context, in ports.ReturnBookInput) error {
	return s.returnFn(ctx, in)
}

func (s *stubCheckoutService) ListOpenCheckouts(ctx context.Context) ([]domain.Checkout, error) {
	return s.listOpenFn(ctx)
}

func (s *stubCheckoutService) CheckoutHistory(ctx context.Context, bookID uuid.UUID) ([]domain.Checkout, error) {
	return s.historyFn(ctx, bookID)
}

type stubUserService struct {
	getFn  func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	listFn func(ctx context.Context) ([]domain.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

// newTestContext builds an echo context for method/target with an optional
// JSON body. A non-nil userID is placed in the context as Auth would.
func newTestContext(t *testing.T, method, target string, body io.Reader, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(middleware.CtxUserID, userID.String())
	}
	return c, rec
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
