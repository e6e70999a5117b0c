package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// CartHandler serves the pending-selection endpoints.  Adding to a cart
// snapshots the selection without reserving anything: the same seat can
// sit in any number of carts and conflicts surface only at confirm
// time.
type CartHandler struct {
	Carts    *repository.CartRepo
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
}

func NewCartHandler(carts *repository.CartRepo, movies *repository.MovieRepo, theaters *repository.TheaterRepo) *CartHandler {
	if carts == nil || movies == nil || theaters == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{Carts: carts, Movies: movies, Theaters: theaters}
}

// Add handles POST /cart/add/:movieId.  The body names a showtime and
// the seat numbers to select; seat numbers must exist in the showtime
// but may already be booked or present in other carts.
func (h *CartHandler) Add(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req struct {
		ShowtimeID uint64   `json:"showtimeId"`
		SeatNos    []uint32 `json:"seatNos"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtimeId is required"})
	}
	seatNos := dedupeSeats(req.SeatNos)
	if len(seatNos) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatNos is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		return fail(c, err)
	}
	st, err := h.Movies.GetShowtime(ctx, movieID, req.ShowtimeID)
	if err != nil {
		return fail(c, err)
	}
	known := make(map[uint32]bool, len(st.Seats))
	for _, s := range st.Seats {
		known[s.SeatNo] = true
	}
	for _, n := range seatNos {
		if !known[n] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat " + strconv.FormatUint(uint64(n), 10) + " does not exist in this showtime"})
		}
	}

	location := ""
	if t, err := h.Theaters.GetByID(ctx, m.TheaterID); err == nil {
		location = t.Location
	}

	seats := make([]model.Seat, len(seatNos))
	for i, n := range seatNos {
		seats[i] = model.Seat{SeatNo: n}
	}
	entry := &model.CartEntry{
		MovieID:    movieID,
		ShowtimeID: st.ID,
		MovieName:  m.Name,
		Price:      m.Price * float64(len(seats)),
		Location:   location,
		ShowTime:   st.Label,
		Seats:      seats,
	}
	if err := h.Carts.AddEntry(ctx, uid, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// Get handles GET /cart/get.  A user with no cart yet sees an empty
// one rather than a 404.
func (h *CartHandler) Get(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cart, err := h.Carts.GetByUser(c.Request().Context(), uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusOK, model.Cart{UserID: uid, Entries: []model.CartEntry{}})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// Remove handles DELETE /cart/remove/:cartId, discarding one entry
// without booking it.
func (h *CartHandler) Remove(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, err := strconv.ParseUint(c.Param("cartId"), 10, 64)
	if err != nil || entryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart entry id"})
	}
	if err := h.Carts.DeleteEntry(c.Request().Context(), uid, entryID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cart entry removed"})
}

// dedupeSeats drops zero and duplicate seat numbers preserving order.
func dedupeSeats(in []uint32) []uint32 {
	out := make([]uint32, 0, len(in))
	seen := make(map[uint32]struct{}, len(in))
	for _, n := range in {
		if n == 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
