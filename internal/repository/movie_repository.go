package repository

import (
	"context"
	"database/sql"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// MovieRepo manages movies, their showtimes and the canonical seat
// availability array of every showtime.  The seat array is the single
// source of truth for whether a seat is booked; carts and tickets only
// carry copies keyed by seat number.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// DB exposes the handle so handlers can open transactions spanning this
// repo and others.
func (r *MovieRepo) DB() *sql.DB { return r.db }

// CreateWithShowtime inserts a movie under a theater together with its
// first showtime and a fully available seat array sized to the theater's
// total seat count.  Seat numbers start at 1.
func (r *MovieRepo) CreateWithShowtime(ctx context.Context, m *model.Movie, showtimeLabel string, totalSeats uint32) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO movies (theater_id, name, url, price, rating) VALUES (?,?,?,?,?)`,
		m.TheaterID, m.Name, m.URL, m.Price, m.Rating)
	if err != nil {
		return 0, err
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = uint64(movieID)

	showtimeID, err := createShowtimeTx(ctx, tx, m.ID, showtimeLabel, totalSeats)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return showtimeID, nil
}

// AddShowtime attaches another showtime (with a fresh seat array) to an
// existing movie.
func (r *MovieRepo) AddShowtime(ctx context.Context, movieID uint64, label string, totalSeats uint32) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	id, err := createShowtimeTx(ctx, tx, movieID, label, totalSeats)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

func createShowtimeTx(ctx context.Context, tx *sql.Tx, movieID uint64, label string, totalSeats uint32) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO showtimes (movie_id, label) VALUES (?,?)`, movieID, label)
	if err != nil {
		return 0, err
	}
	showtimeID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if totalSeats == 0 {
		return uint64(showtimeID), nil
	}
	query := `INSERT INTO showtime_seats (showtime_id, seat_no, is_booked, version) VALUES `
	args := make([]interface{}, 0, int(totalSeats)*4)
	for n := uint32(1); n <= totalSeats; n++ {
		if n > 1 {
			query += ","
		}
		query += "(?, ?, 0, 1)"
		args = append(args, showtimeID, n)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return uint64(showtimeID), nil
}

const movieCols = "id, theater_id, name, url, price, rating"

// GetByID returns one movie without its showtimes.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE id=? LIMIT 1`, id).Scan(
		&m.ID, &m.TheaterID, &m.Name, &m.URL, &m.Price, &m.Rating)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByTheater returns every movie of a theater, each with its showtime
// labels but without seat arrays.
func (r *MovieRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE theater_id=? ORDER BY id`, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.TheaterID, &m.Name, &m.URL, &m.Price, &m.Rating); err != nil {
			return nil, err
		}
		m.Showtimes = []model.Showtime{}
		index[m.ID] = len(movies)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return movies, nil
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.movie_id, s.label FROM showtimes s
		 JOIN movies m ON m.id = s.movie_id
		 WHERE m.theater_id = ? ORDER BY s.id`, theaterID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var st model.Showtime
		if err := srows.Scan(&st.ID, &st.MovieID, &st.Label); err != nil {
			return nil, err
		}
		if i, ok := index[st.MovieID]; ok {
			movies[i].Showtimes = append(movies[i].Showtimes, st)
		}
	}
	return movies, srows.Err()
}

// ShowtimesWithSeats returns every showtime of a movie together with its
// full seat-availability array, seats ordered by number.
func (r *MovieRepo) ShowtimesWithSeats(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	if _, err := r.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, movie_id, label FROM showtimes WHERE movie_id=? ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	showtimes := make([]model.Showtime, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(&st.ID, &st.MovieID, &st.Label); err != nil {
			return nil, err
		}
		st.Seats = []model.Seat{}
		index[st.ID] = len(showtimes)
		showtimes = append(showtimes, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(showtimes) == 0 {
		return showtimes, nil
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT ss.showtime_id, ss.seat_no, ss.is_booked FROM showtime_seats ss
		 JOIN showtimes s ON s.id = ss.showtime_id
		 WHERE s.movie_id = ? ORDER BY ss.showtime_id, ss.seat_no`, movieID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var showtimeID uint64
		var seat model.Seat
		if err := srows.Scan(&showtimeID, &seat.SeatNo, &seat.IsBooked); err != nil {
			return nil, err
		}
		if i, ok := index[showtimeID]; ok {
			showtimes[i].Seats = append(showtimes[i].Seats, seat)
		}
	}
	return showtimes, srows.Err()
}

// GetShowtime returns one showtime of a movie with its seat array.
func (r *MovieRepo) GetShowtime(ctx context.Context, movieID, showtimeID uint64) (*model.Showtime, error) {
	var st model.Showtime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, movie_id, label FROM showtimes WHERE id=? AND movie_id=? LIMIT 1`,
		showtimeID, movieID).Scan(&st.ID, &st.MovieID, &st.Label)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_no, is_booked FROM showtime_seats WHERE showtime_id=? ORDER BY seat_no`,
		st.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	st.Seats = []model.Seat{}
	for rows.Next() {
		var seat model.Seat
		if err := rows.Scan(&seat.SeatNo, &seat.IsBooked); err != nil {
			return nil, err
		}
		st.Seats = append(st.Seats, seat)
	}
	return &st, rows.Err()
}

// BookSeatsTx flags the given seat numbers of a showtime as booked inside
// the caller's transaction.  Each seat is flipped through a conditional
// update guarded on is_booked=0; any seat that reports zero affected rows
// is already booked, and the whole call fails with *SeatsTakenError so
// the caller rolls back.  This is the double-booking guard: two
// confirmations racing for the same seat cannot both pass the guard.
func (r *MovieRepo) BookSeatsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatNos []uint32) error {
	var taken []uint32
	for _, n := range seatNos {
		res, err := tx.ExecContext(ctx,
			`UPDATE showtime_seats SET is_booked=1, version=version+1
			 WHERE showtime_id=? AND seat_no=? AND is_booked=0`,
			showtimeID, n)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			taken = append(taken, n)
		}
	}
	if len(taken) > 0 {
		return &SeatsTakenError{SeatNos: taken}
	}
	return nil
}
