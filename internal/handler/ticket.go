package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/queue"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// TicketHandler owns the booking-confirmation core: converting a cart
// entry into a ticket entry while flipping the showtime's seat flags.
// The whole conversion runs in one SQL transaction so the seat
// reservation and the cart removal commit or roll back together.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Carts   *repository.CartRepo
	Movies  *repository.MovieRepo
}

func NewTicketHandler(tickets *repository.TicketRepo, carts *repository.CartRepo, movies *repository.MovieRepo) *TicketHandler {
	if tickets == nil || carts == nil || movies == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets, Carts: carts, Movies: movies}
}

// Confirm handles POST /bookings/book/:movieId.  The body carries the
// cart entry to convert as dataId; an optional userId must match the
// authenticated identity.  Steps, all inside one transaction:
//
//  1. lock the user's cart entry (404 if absent),
//  2. check the entry targets the movie in the path,
//  3. book every seat via conditional update; any seat already booked
//     aborts with 409 listing the losers,
//  4. append the entry to the user's ticket history,
//  5. delete the cart entry.
//
// Seats are reserved before the cart entry is removed, so a failed
// reservation leaves the cart untouched.  The confirmation event is
// published after commit and is non-fatal.
func (h *TicketHandler) Confirm(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req struct {
		UserID uint64 `json:"userId"`
		DataID uint64 `json:"dataId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DataID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dataId is required"})
	}
	if req.UserID != 0 && req.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "userId does not match the authenticated user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return fail(c, err)
	}

	tx, err := h.Movies.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry, err := h.Carts.GetEntryForUserTx(ctx, tx, uid, req.DataID)
	if err != nil {
		return fail(c, err)
	}
	if entry.MovieID != movieID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart entry does not belong to this movie"})
	}

	seatNos := make([]uint32, len(entry.Seats))
	for i, s := range entry.Seats {
		seatNos[i] = s.SeatNo
	}
	if err := h.Movies.BookSeatsTx(ctx, tx, entry.ShowtimeID, seatNos); err != nil {
		var taken *repository.SeatsTakenError
		if errors.As(err, &taken) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "some seats are already booked",
				"seats": taken.SeatNos,
			})
		}
		return fail(c, err)
	}

	ticketEntry := &model.TicketEntry{
		MovieName: entry.MovieName,
		Price:     entry.Price,
		Location:  entry.Location,
		ShowTime:  entry.ShowTime,
		Seats:     bookedSeats(seatNos),
	}
	if err := h.Tickets.AppendEntryTx(ctx, tx, uid, ticketEntry); err != nil {
		return fail(c, err)
	}
	if err := h.Carts.DeleteEntryTx(ctx, tx, uid, entry.ID); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	ev := queue.TicketConfirmedEvent{
		TicketEntryID: ticketEntry.ID,
		UserID:        uid,
		MovieID:       movieID,
		MovieName:     ticketEntry.MovieName,
		Location:      ticketEntry.Location,
		ShowTime:      ticketEntry.ShowTime,
		SeatNos:       seatNos,
		Price:         ticketEntry.Price,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishTicketConfirmed(ctx, ev); err != nil {
		log.Printf("ticket-confirm: event publish failed: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking confirmed",
		"booking": ticketEntry,
	})
}

// Get handles GET /bookings/get: the authenticated user's own booking
// history.  A user with no bookings yet sees an empty history.
func (h *TicketHandler) Get(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	t, err := h.Tickets.GetByUser(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, model.Ticket{UserID: uid, Entries: []model.TicketEntry{}})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Search handles GET /bookings/search?name=&price=&location=: confirmed
// booking entries filtered by movie name, exact price and location.
func (h *TicketHandler) Search(c echo.Context) error {
	if _, ok := userID(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s := repository.TicketSearch{
		Name:     c.QueryParam("name"),
		Location: c.QueryParam("location"),
	}
	if raw := c.QueryParam("price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a non-negative number"})
		}
		s.Price = p
	}
	entries, err := h.Tickets.SearchEntries(c.Request().Context(), s)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": entries, "count": len(entries)})
}

func bookedSeats(seatNos []uint32) []model.Seat {
	seats := make([]model.Seat, len(seatNos))
	for i, n := range seatNos {
		seats[i] = model.Seat{SeatNo: n, IsBooked: true}
	}
	return seats
}
