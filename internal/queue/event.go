// Package queue defines the payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// TicketConfirmedEvent is published when a cart entry is successfully
// converted into a ticket.  It carries enough context for downstream
// consumers to log or notify without querying the primary database.
type TicketConfirmedEvent struct {
	TicketEntryID uint64   `json:"ticket_entry_id"`
	UserID        uint64   `json:"user_id"`
	MovieID       uint64   `json:"movie_id"`
	MovieName     string   `json:"movie_name"`
	Location      string   `json:"location"`
	ShowTime      string   `json:"show_time"`
	SeatNos       []uint32 `json:"seat_nos"`
	Price         float64  `json:"price"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// ItemBookedEvent is published when a marketplace booking is created
// against a listing.
type ItemBookedEvent struct {
	BookingID uint64  `json:"booking_id"`
	ItemID    uint64  `json:"item_id"`
	ItemTitle string  `json:"item_title"`
	BuyerID   uint64  `json:"buyer_id"`
	SellerID  uint64  `json:"seller_id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}
