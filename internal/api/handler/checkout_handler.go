package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfkeep/library-api/internal/api/metrics"
	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

// CheckoutHandler handles lending and returning books.
type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Checkout handles POST /books/:id/checkouts.
//
// @Summary      Check out a book
// @Description  Lends the book to the caller. A replayed Idempotency-Key returns the caller's open checkout.
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string  true   "Book id"
// @Param        Idempotency-Key  header    string  false  "Client-chosen key that makes the request safe to retry"
// @Success      201              {object}  checkoutCreatedResponse
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /books/{id}/checkouts [post]
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.service.CheckoutBook(c.Request().Context(), ports.CheckoutBookInput{
		BookID:         bookID,
		UserID:         userID,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	metrics.CheckoutsTotal.WithLabelValues("checkout", checkoutResult(err)).Inc()
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.IdempotentReplaysTotal.WithLabelValues("checkout").Inc()
	}
	return c.JSON(http.StatusCreated, checkoutCreatedResponse{ID: res.CheckoutID})
}

// Return handles PUT /books/:id/checkouts/:checkout_id/returned.
//
// @Summary      Return a book
// @Tags         checkouts
// @Security     BearerAuth
// @Param        id           path  string  true  "Book id"
// @Param        checkout_id  path  string  true  "Checkout id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /books/{id}/checkouts/{checkout_id}/returned [put]
func (h *CheckoutHandler) Return(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	checkoutID, err := pathUUID(c, "checkout_id")
	if err != nil {
		return err
	}

	err = h.service.ReturnBook(c.Request().Context(), ports.ReturnBookInput{
		BookID:     bookID,
		CheckoutID: checkoutID,
		UserID:     userID,
	})
	metrics.CheckoutsTotal.WithLabelValues("return", checkoutResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOpen handles GET /books/checkouts.
//
// @Summary      List open checkouts
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  checkoutView
// @Router       /books/checkouts [get]
func (h *CheckoutHandler) ListOpen(c echo.Context) error {
	checkouts, err := h.service.ListOpenCheckouts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckoutViews(checkouts))
}

// History handles GET /books/:id/checkout-history.
//
// @Summary      Checkout history of a book
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {array}   checkoutView
// @Failure      404  {object}  map[string]string
// @Router       /books/{id}/checkout-history [get]
func (h *CheckoutHandler) History(c echo.Context) error {
	bookID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	checkouts, err := h.service.CheckoutHistory(c.Request().Context(), bookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckoutViews(checkouts))
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrBookAlreadyCheckedOut), errors.Is(err, domain.ErrDuplicateRequest):
		return "conflict"
	case errors.Is(err, domain.ErrEntityNotFound):
		return "not_found"
	default:
		return metrics.ResultError
	}
}
