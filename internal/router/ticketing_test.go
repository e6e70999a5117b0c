package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokogo/sokogo-backend/internal/config"
	"github.com/sokogo/sokogo-backend/internal/handler"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// newTicketingServer wires the full ticketing router over sqlmock and a
// live in-process Redis so middleware ordering is exercised end to end.
func newTicketingServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { rdb.Close() })

	users := repository.NewUserRepo(db)
	theaters := repository.NewTheaterRepo(db)
	movies := repository.NewMovieRepo(db)
	carts := repository.NewCartRepo(db)
	tickets := repository.NewTicketRepo(db)

	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: 15}
	e := echo.New()
	RegisterTicketing(e, TicketingDeps{
		Redis:    rdb,
		Users:    users,
		Auth:     handler.NewAuthHandler(cfg, users),
		Theaters: handler.NewTheaterHandler(theaters),
		Movies:   handler.NewMovieHandler(movies, theaters),
		Carts:    handler.NewCartHandler(carts, movies, theaters),
		Tickets:  handler.NewTicketHandler(tickets, carts, movies),
	})
	return e, mock
}

func expectUserLookup(mock sqlmock.Sqlmock, id uint64) {
	cols := []string{"id", "first_name", "last_name", "email", "phone_number", "password_hash", "role", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(id, "User", "Test", fmt.Sprintf("u%d@b.co", id), "", "x", "buyer", time.Now()))
}

func doGet(e *echo.Echo, target, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req.Header.Set("userid", userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Each user's cart read must come from the database under their own id;
// one user's cart body must never be replayed to another.
func TestCartReadIsNeverSharedBetweenUsers(t *testing.T) {
	e, mock := newTicketingServer(t)

	// user 1 has a cart with one entry on seats 3 and 5
	expectUserLookup(mock, 1)
	mock.ExpectQuery("SELECT id, user_id FROM carts WHERE user_id=").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(20, 1))
	mock.ExpectQuery("SELECT id, movie_id, showtime_id, movie_name, price, location, show_time").
		WithArgs(uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "showtime_id", "movie_name", "price", "location", "show_time"}).
			AddRow(11, 12, 30, "Inception", 10000.0, "Kigali", "19:30"))
	mock.ExpectQuery("SELECT s.cart_entry_id, s.seat_no FROM cart_entry_seats").
		WithArgs(uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_entry_id", "seat_no"}).
			AddRow(11, 3).AddRow(11, 5))

	// user 2 has no cart at all
	expectUserLookup(mock, 2)
	mock.ExpectQuery("SELECT id, user_id FROM carts WHERE user_id=").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	rec1 := doGet(e, "/cart/get", "1")
	assert.Equal(t, http.StatusOK, rec1.Code)
	assert.Contains(t, rec1.Body.String(), "Inception")

	rec2 := doGet(e, "/cart/get", "2")
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.NotContains(t, rec2.Body.String(), "Inception")
	assert.Empty(t, rec2.Header().Get("X-Cache"))

	// user 2's queries actually ran, proving nothing was replayed
	require.NoError(t, mock.ExpectationsWereMet())
}

// Theater listings are identical for every caller and may be cached;
// the second read is a HIT and skips the database, but authentication
// still runs first.
func TestTheaterListingIsCachedAcrossUsers(t *testing.T) {
	e, mock := newTicketingServer(t)

	expectUserLookup(mock, 1)
	mock.ExpectQuery("SELECT id, name, location, total_seats FROM theaters").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "total_seats"}).
			AddRow(1, "Canal Olympia", "Kigali", 120))
	expectUserLookup(mock, 2)

	rec1 := doGet(e, "/theaters/allTheater", "1")
	assert.Equal(t, http.StatusOK, rec1.Code)
	assert.Equal(t, "MISS", rec1.Header().Get("X-Cache"))

	rec2 := doGet(e, "/theaters/allTheater", "2")
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "HIT", rec2.Header().Get("X-Cache"))
	assert.Equal(t, rec1.Body.String(), rec2.Body.String())

	// a cached listing still requires identity
	rec3 := doGet(e, "/theaters/allTheater", "")
	assert.Equal(t, http.StatusUnauthorized, rec3.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
