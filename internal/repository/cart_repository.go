package repository

import (
	"context"
	"database/sql"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// CartRepo stores pending seat selections.  A user has at most one cart
// row; entries and their seat copies hang off it.  Adding to a cart never
// checks seat availability, so the same seat may appear in any number of
// carts at once.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// GetByUser loads the user's cart with all entries and their seats.
// ErrNotFound means the user never added anything.
func (r *CartRepo) GetByUser(ctx context.Context, userID uint64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id FROM carts WHERE user_id=? LIMIT 1`, userID).
		Scan(&cart.ID, &cart.UserID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, movie_id, showtime_id, movie_name, price, location, show_time
		 FROM cart_entries WHERE cart_id=? ORDER BY id`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cart.Entries = []model.CartEntry{}
	index := make(map[uint64]int)
	for rows.Next() {
		var e model.CartEntry
		var location sql.NullString
		if err := rows.Scan(&e.ID, &e.MovieID, &e.ShowtimeID, &e.MovieName, &e.Price, &location, &e.ShowTime); err != nil {
			return nil, err
		}
		e.Location = location.String
		e.Seats = []model.Seat{}
		index[e.ID] = len(cart.Entries)
		cart.Entries = append(cart.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cart.Entries) == 0 {
		return &cart, nil
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT s.cart_entry_id, s.seat_no FROM cart_entry_seats s
		 JOIN cart_entries e ON e.id = s.cart_entry_id
		 WHERE e.cart_id = ? ORDER BY s.cart_entry_id, s.seat_no`, cart.ID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var entryID uint64
		var seat model.Seat
		if err := srows.Scan(&entryID, &seat.SeatNo); err != nil {
			return nil, err
		}
		if i, ok := index[entryID]; ok {
			cart.Entries[i].Seats = append(cart.Entries[i].Seats, seat)
		}
	}
	return &cart, srows.Err()
}

// AddEntry appends a selection to the user's cart, creating the cart row
// on first use.  The entry's ID is populated on success.
func (r *CartRepo) AddEntry(ctx context.Context, userID uint64, e *model.CartEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cartID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id=? LIMIT 1`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		res, insErr := tx.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES (?)`, userID)
		if insErr != nil {
			return insErr
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			return idErr
		}
		cartID = uint64(id)
	} else if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO cart_entries (cart_id, movie_id, showtime_id, movie_name, price, location, show_time)
		 VALUES (?,?,?,?,?,?,?)`,
		cartID, e.MovieID, e.ShowtimeID, e.MovieName, e.Price, e.Location, e.ShowTime)
	if err != nil {
		return err
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(entryID)

	if len(e.Seats) > 0 {
		query := `INSERT INTO cart_entry_seats (cart_entry_id, seat_no) VALUES `
		args := make([]interface{}, 0, len(e.Seats)*2)
		for i, s := range e.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, e.ID, s.SeatNo)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteEntry removes an entry (and its seats) from the user's cart
// without booking it.  ErrNotFound when the entry is not in that cart.
func (r *CartRepo) DeleteEntry(ctx context.Context, userID, entryID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.DeleteEntryTx(ctx, tx, userID, entryID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetEntryForUserTx fetches one cart entry (with seats) scoped to the
// user, inside the caller's transaction.  The row is locked FOR UPDATE so
// a concurrent confirmation of the same entry serializes here.
func (r *CartRepo) GetEntryForUserTx(ctx context.Context, tx *sql.Tx, userID, entryID uint64) (*model.CartEntry, error) {
	var e model.CartEntry
	var location sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT e.id, e.movie_id, e.showtime_id, e.movie_name, e.price, e.location, e.show_time
		 FROM cart_entries e
		 JOIN carts c ON c.id = e.cart_id
		 WHERE e.id = ? AND c.user_id = ?
		 FOR UPDATE`,
		entryID, userID).Scan(&e.ID, &e.MovieID, &e.ShowtimeID, &e.MovieName, &e.Price, &location, &e.ShowTime)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Location = location.String
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_no FROM cart_entry_seats WHERE cart_entry_id=? ORDER BY seat_no`, e.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	e.Seats = []model.Seat{}
	for rows.Next() {
		var seat model.Seat
		if err := rows.Scan(&seat.SeatNo); err != nil {
			return nil, err
		}
		e.Seats = append(e.Seats, seat)
	}
	return &e, rows.Err()
}

// DeleteEntryTx removes a cart entry and its seats inside the caller's
// transaction, scoped to the user.
func (r *CartRepo) DeleteEntryTx(ctx context.Context, tx *sql.Tx, userID, entryID uint64) error {
	res, err := tx.ExecContext(ctx,
		`DELETE e FROM cart_entries e
		 JOIN carts c ON c.id = e.cart_id
		 WHERE e.id = ? AND c.user_id = ?`,
		entryID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM cart_entry_seats WHERE cart_entry_id=?`, entryID)
	return err
}
