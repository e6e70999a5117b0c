package model

// Theater is a cinema venue.  TotalSeats fixes the size of the seat array
// created for every showtime of every movie added to the theater.
type Theater struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"theaterName"`
	Location   string   `json:"location"`
	TotalSeats uint32   `json:"totalSeats"`
	MovieIDs   []uint64 `json:"movies,omitempty"`
}

// Movie is a film screened at one theater.  Each movie carries one or more
// showtimes, each with its own independent seat-availability array.
type Movie struct {
	ID        uint64     `json:"id"`
	TheaterID uint64     `json:"theaterId"`
	Name      string     `json:"movieName"`
	URL       string     `json:"url"`
	Price     float64    `json:"price"`
	Rating    float64    `json:"rating"`
	Showtimes []Showtime `json:"availableSeat,omitempty"`
}

// Showtime is one scheduled screening.  Seats holds the canonical
// availability array; seat numbers are unique within a showtime and are
// the join key between cart snapshots and this array.
type Showtime struct {
	ID      uint64 `json:"id"`
	MovieID uint64 `json:"movieId"`
	Label   string `json:"showTime"`
	Seats   []Seat `json:"seat,omitempty"`
}

// Seat is one entry in a showtime's availability array.  Version guards
// concurrent flips of IsBooked; the repository only books a seat through a
// conditional update so a booked seat can never be booked again.
type Seat struct {
	SeatNo   uint32 `json:"seatNo"`
	IsBooked bool   `json:"isBooked"`
	Version  uint32 `json:"-"`
}
