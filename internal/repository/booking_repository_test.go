package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sokogo/sokogo-backend/internal/model"
)

var bookingRowCols = []string{
	"id", "user_id", "item_id", "check_in_date", "check_out_date",
	"total_price", "status", "additional_requests", "created_at",
}

func TestBookingUpdateStatusTerminalConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// the UPDATE skips terminal rows, so a cancelled booking reports
	// zero affected; the follow-up read finds it and the repo maps the
	// outcome to ErrConflict
	mock.ExpectExec("UPDATE bookings").
		WithArgs(model.BookingConfirmed, uint64(3), uint64(8), model.BookingCancelled, model.BookingCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WithArgs(uint64(3), uint64(8)).
		WillReturnRows(sqlmock.NewRows(bookingRowCols).
			AddRow(3, 8, 2, now, now.Add(48*time.Hour), 200, model.BookingCancelled, "", now))

	repo := NewBookingRepo(db)
	_, err = repo.UpdateStatus(context.Background(), 3, 8, model.BookingConfirmed)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for terminal booking, got %v", err)
	}
}

func TestBookingUpdateStatusMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").
		WillReturnRows(sqlmock.NewRows(bookingRowCols))

	repo := NewBookingRepo(db)
	_, err = repo.UpdateStatus(context.Background(), 3, 8, model.BookingConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
