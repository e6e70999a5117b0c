package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/queue"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// BookingHandler serves marketplace bookings: reserving a listing for a
// date range and driving the booking through its status lifecycle.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Items    *repository.ItemRepo
}

func NewBookingHandler(b *repository.BookingRepo, i *repository.ItemRepo) *BookingHandler {
	if b == nil || i == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Items: i}
}

type bookingReq struct {
	ItemID             uint64  `json:"itemId"`
	CheckInDate        string  `json:"checkInDate"`
	CheckOutDate       string  `json:"checkOutDate"`
	TotalPrice         float64 `json:"totalPrice"`
	AdditionalRequests string  `json:"additionalRequests"`
}

// Create handles POST /api/bookings.  The target listing must exist and
// be ACTIVE; the date range must be well-formed and forward-running.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itemId is required"})
	}
	checkIn, err := time.Parse("2006-01-02", req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkInDate must be YYYY-MM-DD"})
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkOutDate must be YYYY-MM-DD"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkOutDate must be after checkInDate"})
	}
	if req.TotalPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalPrice must be a positive number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, req.ItemID)
	if err != nil {
		return fail(c, err)
	}
	if it.Status != model.ItemStatusActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item is not available for booking"})
	}

	b := &model.Booking{
		UserID:             uid,
		ItemID:             req.ItemID,
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		TotalPrice:         req.TotalPrice,
		Status:             model.BookingPending,
		AdditionalRequests: strings.TrimSpace(req.AdditionalRequests),
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return fail(c, err)
	}

	ev := queue.ItemBookedEvent{
		BookingID: b.ID,
		ItemID:    it.ID,
		ItemTitle: it.Title,
		BuyerID:   uid,
		SellerID:  it.SellerID,
		Amount:    b.TotalPrice,
		Status:    b.Status,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishItemBooked(ctx, ev); err != nil {
		log.Printf("booking-create: event publish failed: %v", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /api/bookings: the authenticated user's bookings,
// newest first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "count": len(bookings)})
}

// GetByID handles GET /api/bookings/:id, scoped to the owning user.
func (h *BookingHandler) GetByID(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus handles PATCH /api/bookings/:id/status.  CANCELLED and
// COMPLETED are terminal; moving a booking out of them is a 409.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	b, err := h.Bookings.UpdateStatus(c.Request().Context(), id, uid, status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /api/bookings/:id/cancel, a shorthand for the
// CANCELLED transition.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.UpdateStatus(c.Request().Context(), id, uid, model.BookingCancelled)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
