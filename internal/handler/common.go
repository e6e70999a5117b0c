// Package handler contains the HTTP handlers for both API surfaces.
// Handlers translate requests into repository calls and map the
// repository's sentinel errors onto HTTP statuses; they never log on
// the request path.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/repository"
)

// userID extracts the authenticated user's ID stored by the auth
// middleware.  The second return is false when no identity is present,
// which only happens on misconfigured route groups.
func userID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("user_id").(uint64)
	return id, ok && id != 0
}

// fail maps a repository error to its HTTP status.  Unknown errors
// become 500 with a generic message so internals never leak.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already registered"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
