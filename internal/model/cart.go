package model

// CartEntry is a user's pending, unconfirmed seat selection for one
// showtime.  The seats are a copy of the selection, not a hold: no
// inventory check happens at add time and the same seat may sit in many
// carts.  Conflicts surface only when a booking is confirmed.
type CartEntry struct {
	ID         uint64  `json:"id"`
	MovieID    uint64  `json:"movieId"`
	ShowtimeID uint64  `json:"showtimeId"`
	MovieName  string  `json:"movieName"`
	Price      float64 `json:"price"`
	Location   string  `json:"location,omitempty"`
	ShowTime   string  `json:"showTime"`
	Seats      []Seat  `json:"seat"`
}

// Cart collects a user's pending selections.  One cart per user; entries
// are removed when converted to a ticket or deleted explicitly.
type Cart struct {
	ID      uint64      `json:"id"`
	UserID  uint64      `json:"userId"`
	Entries []CartEntry `json:"cartDetails"`
}

// TicketEntry is one confirmed seat selection in a user's ticket history.
// Every seat it carries is flagged booked.
type TicketEntry struct {
	ID        uint64  `json:"id"`
	MovieName string  `json:"movieName"`
	Price     float64 `json:"price"`
	Location  string  `json:"location,omitempty"`
	ShowTime  string  `json:"showTime"`
	Seats     []Seat  `json:"seat"`
}

// Ticket is the durable record of a user's confirmed bookings.  Entries
// accumulate over time; nothing is ever removed from it.
type Ticket struct {
	ID      uint64        `json:"id"`
	UserID  uint64        `json:"userId"`
	Entries []TicketEntry `json:"bookingDetails"`
}
