package model

import "time"

// Marketplace booking states.  CANCELLED and COMPLETED are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// TerminalBookingStatus reports whether s permits no further transitions.
func TerminalBookingStatus(s string) bool {
	return s == BookingCancelled || s == BookingCompleted
}

// Booking records a marketplace reservation of an item for a date range.
//
// Fields:
//
//	ID                 - primary key identifier.
//	UserID             - user who made the booking.
//	ItemID             - item being booked.
//	CheckInDate        - start of the reserved range.
//	CheckOutDate       - end of the reserved range.
//	TotalPrice         - agreed price for the range.
//	Status             - PENDING, CONFIRMED, CANCELLED or COMPLETED.
//	AdditionalRequests - optional free-form notes from the booker.
type Booking struct {
	ID                 uint64    `json:"id"`
	UserID             uint64    `json:"userId"`
	ItemID             uint64    `json:"itemId"`
	CheckInDate        time.Time `json:"checkInDate"`
	CheckOutDate       time.Time `json:"checkOutDate"`
	TotalPrice         float64   `json:"totalPrice"`
	Status             string    `json:"status"`
	AdditionalRequests string    `json:"additionalRequests,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}
