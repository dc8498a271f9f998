package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shelfkeep/library-api/internal/api/middleware"
)

// headerIdempotencyKey is the optional request header that makes a POST safe
// to retry.
const headerIdempotencyKey = "Idempotency-Key"

// ctxUserID returns the authenticated user's id injected by the Auth
// middleware. A missing or malformed claim means the middleware did not run
// or the token was minted elsewhere, so the request is rejected with 401.
func ctxUserID(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get(middleware.CtxUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// pathUUID parses the named path parameter as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
