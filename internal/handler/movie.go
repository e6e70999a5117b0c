package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// MovieHandler serves movie and showtime endpoints.  Adding a movie to
// a theater creates its first showtime with a fully available seat
// array sized by the theater.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
}

func NewMovieHandler(m *repository.MovieRepo, t *repository.TheaterRepo) *MovieHandler {
	if m == nil || t == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: m, Theaters: t}
}

// Add handles POST /movie/add/:theaterId.
func (h *MovieHandler) Add(c echo.Context) error {
	theaterID, err := strconv.ParseUint(c.Param("theaterId"), 10, 64)
	if err != nil || theaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	var req struct {
		Name     string  `json:"movieName"`
		URL      string  `json:"url"`
		Price    float64 `json:"price"`
		Rating   float64 `json:"rating"`
		ShowTime string  `json:"showTime"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ShowTime = strings.TrimSpace(req.ShowTime)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieName is required"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive number"})
	}
	if req.ShowTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showTime is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t, err := h.Theaters.GetByID(ctx, theaterID)
	if err != nil {
		return fail(c, err)
	}

	m := &model.Movie{
		TheaterID: theaterID,
		Name:      req.Name,
		URL:       req.URL,
		Price:     req.Price,
		Rating:    req.Rating,
	}
	showtimeID, err := h.Movies.CreateWithShowtime(ctx, m, req.ShowTime, t.TotalSeats)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"movie":      m,
		"showtimeId": showtimeID,
		"totalSeats": t.TotalSeats,
	})
}

// AddShowtime handles POST /movie/addShowtime/:movieId: a further
// screening of an existing movie, again fully available.
func (h *MovieHandler) AddShowtime(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req struct {
		ShowTime string `json:"showTime"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ShowTime = strings.TrimSpace(req.ShowTime)
	if req.ShowTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showTime is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		return fail(c, err)
	}
	t, err := h.Theaters.GetByID(ctx, m.TheaterID)
	if err != nil {
		return fail(c, err)
	}
	showtimeID, err := h.Movies.AddShowtime(ctx, movieID, req.ShowTime, t.TotalSeats)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"showtimeId": showtimeID, "totalSeats": t.TotalSeats})
}

// SeatDetails handles GET /movie/availableSeatDetails/:movieId: every
// showtime of the movie with its full seat-availability array.
func (h *MovieHandler) SeatDetails(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		return fail(c, err)
	}
	showtimes, err := h.Movies.ShowtimesWithSeats(ctx, movieID)
	if err != nil {
		return fail(c, err)
	}
	m.Showtimes = showtimes
	return c.JSON(http.StatusOK, m)
}

// AllByTheater handles GET /movie/AllMovie/:theaterId: every movie
// screening at the theater, with showtime labels but without seat
// arrays.
func (h *MovieHandler) AllByTheater(c echo.Context) error {
	theaterID, err := strconv.ParseUint(c.Param("theaterId"), 10, 64)
	if err != nil || theaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	if _, err := h.Theaters.GetByID(c.Request().Context(), theaterID); err != nil {
		return fail(c, err)
	}
	movies, err := h.Movies.ListByTheater(c.Request().Context(), theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies, "count": len(movies)})
}

// One handles GET /movie/OneMovie/:movieId/:showId: a single movie with
// one showtime's seat array.
func (h *MovieHandler) One(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showID, err := strconv.ParseUint(c.Param("showId"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		return fail(c, err)
	}
	st, err := h.Movies.GetShowtime(ctx, movieID, showID)
	if err != nil {
		return fail(c, err)
	}
	m.Showtimes = []model.Showtime{*st}
	return c.JSON(http.StatusOK, m)
}
