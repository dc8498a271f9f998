package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shelfkeep/library-api/internal/api/metrics"
	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

// Pagination metadata headers on GET /books.
const (
	headerTotalCount = "X-Total-Count"
	headerLimit      = "X-Limit"
	headerOffset     = "X-Offset"
)

// BookHandler handles HTTP requests for book records.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /books.
//
// @Summary      Register a book
// @Description  The book is owned by the caller. Repeating a request with the same Idempotency-Key stores nothing new.
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        Idempotency-Key  header  string       false  "Client-chosen key that makes the request safe to retry"
// @Param        body             body    bookRequest  true   "Book fields"
// @Success      201
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	replayed, err := h.service.RegisterBook(c.Request().Context(), ports.RegisterBookInput{
		Book:           req.toCreateBook(),
		OwnerID:        userID,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if replayed {
		metrics.IdempotentReplaysTotal.WithLabelValues("register_book").Inc()
	} else {
		metrics.BooksRegisteredTotal.Inc()
	}
	return c.NoContent(http.StatusCreated)
}

// List handles GET /books.
//
// @Summary      List books
// @Description  Newest first. Pagination metadata is returned in the X-Total-Count, X-Limit and X-Offset headers.
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (1-100, default 20)"
// @Param        offset  query     int  false  "Rows to skip (default 0)"
// @Success      200     {array}   bookView
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	var in ports.ListBooksInput
	if err := echo.QueryParamsBinder(c).
		Int64("limit", &in.Limit).
		Int64("offset", &in.Offset).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}

	page, err := h.service.ListBooks(c.Request().Context(), in)
	if err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set(headerTotalCount, strconv.FormatInt(page.Total, 10))
	header.Set(headerLimit, strconv.FormatInt(page.Limit, 10))
	header.Set(headerOffset, strconv.FormatInt(page.Offset, 10))

	return c.JSON(http.StatusOK, toBookViews(page.Items))
}

// Get handles GET /books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.service.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookView(book))
}

// Update handles PUT /books/:id. Only the owner may update; anyone else gets 404.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string       true  "Book id"
// @Param        body  body  bookRequest  true  "Replacement fields"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.UpdateBook(c.Request().Context(), domain.UpdateBook{
		BookID:        id,
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Description:   req.Description,
		RequestedUser: userID,
	})
	metrics.BookMutationsTotal.WithLabelValues("update", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /books/:id. Only the owner may delete; anyone else gets 404.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  string  true  "Book id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	err = h.service.DeleteBook(c.Request().Context(), domain.DeleteBook{BookID: id, RequestedUser: userID})
	metrics.BookMutationsTotal.WithLabelValues("delete", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrEntityNotFound):
		return "not_found"
	default:
		return metrics.ResultError
	}
}
