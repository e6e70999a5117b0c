package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokogo/sokogo-backend/internal/repository"
)

func newTicketHandler(t *testing.T) (*TicketHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTicketHandler(
		repository.NewTicketRepo(db),
		repository.NewCartRepo(db),
		repository.NewMovieRepo(db),
	), mock
}

func confirmRequest(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/bookings/book/12", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/bookings/book/:movieId")
	c.SetParamNames("movieId")
	c.SetParamValues("12")
	c.Set("user_id", uint64(4))
	c.Set("role", "buyer")
	return c, rec
}

func expectMovieLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id=").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "theater_id", "name", "url", "price", "rating"}).
			AddRow(12, 2, "Inception", "", 5000, 4.8))
}

func expectCartEntryLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT e.id, e.movie_id, e.showtime_id").
		WithArgs(uint64(11), uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "showtime_id", "movie_name", "price", "location", "show_time"}).
			AddRow(11, 12, 30, "Inception", 10000, "Kigali", "18:00"))
	mock.ExpectQuery("SELECT seat_no FROM cart_entry_seats").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(3).AddRow(5))
}

func TestConfirmBookingMovesEntryToTicket(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectMovieLookup(mock)
	mock.ExpectBegin()
	expectCartEntryLookup(mock)

	// both seats free: conditional updates each flip one row
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(30), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(30), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// first booking: ticket row is created, then entry and seats
	mock.ExpectQuery("SELECT id FROM tickets").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(50, 1))
	mock.ExpectExec("INSERT INTO ticket_entries").
		WillReturnResult(sqlmock.NewResult(60, 1))
	mock.ExpectExec("INSERT INTO ticket_entry_seats").
		WillReturnResult(sqlmock.NewResult(0, 2))

	// the cart entry disappears
	mock.ExpectExec("DELETE e FROM cart_entries e").
		WithArgs(uint64(11), uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_entry_seats").
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	c, rec := confirmRequest(`{"dataId": 11}`)
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Booking struct {
			MovieName string `json:"movieName"`
			Seats     []struct {
				SeatNo   uint32 `json:"seatNo"`
				IsBooked bool   `json:"isBooked"`
			} `json:"seat"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "booking confirmed", resp.Message)
	assert.Equal(t, "Inception", resp.Booking.MovieName)
	require.Len(t, resp.Booking.Seats, 2)
	for _, s := range resp.Booking.Seats {
		assert.True(t, s.IsBooked)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingRejectsTakenSeat(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectMovieLookup(mock)
	mock.ExpectBegin()
	expectCartEntryLookup(mock)

	// seat 3 flips, seat 5 was booked by an earlier confirmation
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(30), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats").
		WithArgs(uint64(30), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := confirmRequest(`{"dataId": 11}`)
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error string   `json:"error"`
		Seats []uint32 `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint32{5}, resp.Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingWrongMovie(t *testing.T) {
	h, mock := newTicketHandler(t)

	expectMovieLookup(mock)
	mock.ExpectBegin()
	// entry 11 belongs to a different movie
	mock.ExpectQuery("SELECT e.id, e.movie_id, e.showtime_id").
		WithArgs(uint64(11), uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "showtime_id", "movie_name", "price", "location", "show_time"}).
			AddRow(11, 99, 30, "Other Film", 10000, "Kigali", "18:00"))
	mock.ExpectQuery("SELECT seat_no FROM cart_entry_seats").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(3))
	mock.ExpectRollback()

	c, rec := confirmRequest(`{"dataId": 11}`)
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmBookingRequiresDataID(t *testing.T) {
	h, _ := newTicketHandler(t)
	c, rec := confirmRequest(`{}`)
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmBookingForeignUserID(t *testing.T) {
	h, _ := newTicketHandler(t)
	c, rec := confirmRequest(`{"userId": 9, "dataId": 11}`)
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
