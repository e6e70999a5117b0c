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

func newCartHandler(t *testing.T) (*CartHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCartHandler(
		repository.NewCartRepo(db),
		repository.NewMovieRepo(db),
		repository.NewTheaterRepo(db),
	), mock
}

func cartAddRequest(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cart/add/12", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/cart/add/:movieId")
	c.SetParamNames("movieId")
	c.SetParamValues("12")
	c.Set("user_id", uint64(4))
	return c, rec
}

func expectShowtimeLookup(mock sqlmock.Sqlmock, seatCount int) {
	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id=").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "theater_id", "name", "url", "price", "rating"}).
			AddRow(12, 2, "Inception", "", 5000, 4.8))
	mock.ExpectQuery("SELECT id, movie_id, label FROM showtimes").
		WithArgs(uint64(30), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "label"}).
			AddRow(30, 12, "18:00"))
	seatRows := sqlmock.NewRows([]string{"seat_no", "is_booked"})
	for n := 1; n <= seatCount; n++ {
		seatRows.AddRow(n, false)
	}
	mock.ExpectQuery("SELECT seat_no, is_booked FROM showtime_seats").
		WithArgs(uint64(30)).
		WillReturnRows(seatRows)
}

// Adding a selection never checks availability, only that the seat
// numbers exist in the showtime.
func TestCartAddRejectsUnknownSeat(t *testing.T) {
	h, mock := newCartHandler(t)
	expectShowtimeLookup(mock, 5)

	c, rec := cartAddRequest(`{"showtimeId": 30, "seatNos": [3, 9]}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat 9")
}

func TestCartAddSnapshotsSelection(t *testing.T) {
	h, mock := newCartHandler(t)
	expectShowtimeLookup(mock, 5)

	mock.ExpectQuery("SELECT (.+) FROM theaters WHERE id=").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "total_seats"}).
			AddRow(2, "Century", "Kigali", 5))
	mock.ExpectQuery("SELECT id FROM movies WHERE theater_id=").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM carts").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	mock.ExpectExec("INSERT INTO cart_entries").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec("INSERT INTO cart_entry_seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	c, rec := cartAddRequest(`{"showtimeId": 30, "seatNos": [3, 5, 3]}`)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var entry struct {
		MovieName string  `json:"movieName"`
		Price     float64 `json:"price"`
		ShowTime  string  `json:"showTime"`
		Seats     []struct {
			SeatNo uint32 `json:"seatNo"`
		} `json:"seat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "Inception", entry.MovieName)
	assert.Equal(t, "18:00", entry.ShowTime)
	// duplicate seat 3 is collapsed, price covers two seats
	require.Len(t, entry.Seats, 2)
	assert.Equal(t, 10000.0, entry.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}
