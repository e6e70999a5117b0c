package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBookSeatsTxFlagsEverySeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(7), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(7), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewMovieRepo(db)
	if err := repo.BookSeatsTx(context.Background(), tx, 7, []uint32{3, 5}); err != nil {
		t.Fatalf("expected all seats booked, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookSeatsTxRejectsTakenSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// seat 3 flips, seat 5 is already booked (zero rows affected)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(7), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(7), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewMovieRepo(db)
	err = repo.BookSeatsTx(context.Background(), tx, 7, []uint32{3, 5})
	if err == nil {
		t.Fatal("expected conflict for seat 5")
	}
	var taken *SeatsTakenError
	if !errors.As(err, &taken) {
		t.Fatalf("expected *SeatsTakenError, got %T", err)
	}
	if len(taken.SeatNos) != 1 || taken.SeatNos[0] != 5 {
		t.Fatalf("expected seat 5 reported taken, got %v", taken.SeatNos)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("SeatsTakenError should unwrap to ErrConflict")
	}
}

func TestCreateWithShowtimeSeedsSeatRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO movies").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO showtimes").
		WithArgs(uint64(12), "18:00").
		WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectExec("INSERT INTO showtime_seats").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	repo := NewMovieRepo(db)
	m := testMovie()
	showtimeID, err := repo.CreateWithShowtime(context.Background(), m, "18:00", 3)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if showtimeID != 30 {
		t.Fatalf("expected showtime id 30, got %d", showtimeID)
	}
	if m.ID != 12 {
		t.Fatalf("expected movie id populated, got %d", m.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
