package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// TheaterHandler serves the cinema venue endpoints of the ticketing API.
type TheaterHandler struct {
	Theaters *repository.TheaterRepo
}

func NewTheaterHandler(t *repository.TheaterRepo) *TheaterHandler {
	if t == nil {
		panic("nil repository passed to NewTheaterHandler")
	}
	return &TheaterHandler{Theaters: t}
}

// Add handles POST /theaters/add.
func (h *TheaterHandler) Add(c echo.Context) error {
	var req struct {
		Name       string `json:"theaterName"`
		Location   string `json:"location"`
		TotalSeats uint32 `json:"totalSeats"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theaterName is required"})
	}
	if req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location is required"})
	}
	if req.TotalSeats == 0 || req.TotalSeats > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalSeats must be between 1 and 1000"})
	}

	t := &model.Theater{Name: req.Name, Location: req.Location, TotalSeats: req.TotalSeats}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// All handles GET /theaters/allTheater.
func (h *TheaterHandler) All(c echo.Context) error {
	theaters, err := h.Theaters.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": theaters, "count": len(theaters)})
}

// One handles GET /theaters/oneTheater/:id.
func (h *TheaterHandler) One(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	t, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Search handles GET /theaters/search?name=&location=.
func (h *TheaterHandler) Search(c echo.Context) error {
	theaters, err := h.Theaters.Search(c.Request().Context(), c.QueryParam("name"), c.QueryParam("location"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": theaters, "count": len(theaters)})
}
