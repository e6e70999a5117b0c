package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// APIRoot answers GET /api with a short service description so a bare
// probe of the API base path is not a 404.
func APIRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":    "sokogo marketplace api",
		"status":  "running",
		"version": "1.0",
	})
}
