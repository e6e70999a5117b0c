package repository

import "github.com/sokogo/sokogo-backend/internal/model"

func testCartEntry() *model.CartEntry {
	return &model.CartEntry{
		MovieID:    12,
		ShowtimeID: 30,
		MovieName:  "Inception",
		Price:      10000,
		Location:   "Kigali",
		ShowTime:   "18:00",
		Seats:      []model.Seat{{SeatNo: 3}, {SeatNo: 5}},
	}
}

func testMovie() *model.Movie {
	return &model.Movie{
		TheaterID: 2,
		Name:      "Inception",
		URL:       "https://example.com/inception.jpg",
		Price:     5000,
		Rating:    4.8,
	}
}
