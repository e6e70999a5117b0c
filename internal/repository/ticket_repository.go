package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// TicketRepo stores confirmed cinema bookings.  A user has at most one
// ticket row; confirmed entries accumulate under it and are never
// removed.  Every seat stored here carries is_booked=1.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// AppendEntryTx adds a confirmed entry (with its seats flagged booked) to
// the user's ticket inside the caller's transaction, creating the ticket
// row on the user's first booking.  The entry ID is populated.
func (r *TicketRepo) AppendEntryTx(ctx context.Context, tx *sql.Tx, userID uint64, e *model.TicketEntry) error {
	var ticketID uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tickets WHERE user_id=? LIMIT 1`, userID).Scan(&ticketID)
	if err == sql.ErrNoRows {
		res, insErr := tx.ExecContext(ctx, `INSERT INTO tickets (user_id) VALUES (?)`, userID)
		if insErr != nil {
			return insErr
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			return idErr
		}
		ticketID = uint64(id)
	} else if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO ticket_entries (ticket_id, movie_name, price, location, show_time)
		 VALUES (?,?,?,?,?)`,
		ticketID, e.MovieName, e.Price, e.Location, e.ShowTime)
	if err != nil {
		return err
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(entryID)

	if len(e.Seats) == 0 {
		return nil
	}
	query := `INSERT INTO ticket_entry_seats (ticket_entry_id, seat_no, is_booked) VALUES `
	args := make([]interface{}, 0, len(e.Seats)*3)
	for i, s := range e.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, 1)"
		args = append(args, e.ID, s.SeatNo)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// GetByUser returns the user's booking history.  ErrNotFound when the
// user has never confirmed a booking.
func (r *TicketRepo) GetByUser(ctx context.Context, userID uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id FROM tickets WHERE user_id=? LIMIT 1`, userID).
		Scan(&t.ID, &t.UserID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	entries, err := r.entries(ctx, `e.ticket_id = ?`, t.ID)
	if err != nil {
		return nil, err
	}
	t.Entries = entries
	return &t, nil
}

// TicketSearch filters the booking history listing.  Name and Location
// match as case-insensitive substrings, Price matches exactly when > 0.
type TicketSearch struct {
	Name     string
	Price    float64
	Location string
}

// SearchEntries returns confirmed booking entries across all users,
// filtered by s.  An empty filter lists everything.
func (r *TicketRepo) SearchEntries(ctx context.Context, s TicketSearch) ([]model.TicketEntry, error) {
	where := []string{}
	args := []any{}
	if s.Name != "" {
		where = append(where, "LOWER(e.movie_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(s.Name)+"%")
	}
	if s.Location != "" {
		where = append(where, "LOWER(e.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(s.Location)+"%")
	}
	if s.Price > 0 {
		where = append(where, "e.price = ?")
		args = append(args, s.Price)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return r.entries(ctx, cond, args...)
}

func (r *TicketRepo) entries(ctx context.Context, cond string, args ...any) ([]model.TicketEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.movie_name, e.price, e.location, e.show_time
		 FROM ticket_entries e WHERE `+cond+` ORDER BY e.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.TicketEntry, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var e model.TicketEntry
		var location sql.NullString
		if err := rows.Scan(&e.ID, &e.MovieName, &e.Price, &location, &e.ShowTime); err != nil {
			return nil, err
		}
		e.Location = location.String
		e.Seats = []model.Seat{}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}
	ids := make([]any, 0, len(entries))
	placeholders := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		placeholders = append(placeholders, "?")
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT ticket_entry_id, seat_no, is_booked FROM ticket_entry_seats
		 WHERE ticket_entry_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY ticket_entry_id, seat_no`, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var entryID uint64
		var seat model.Seat
		if err := srows.Scan(&entryID, &seat.SeatNo, &seat.IsBooked); err != nil {
			return nil, err
		}
		if i, ok := index[entryID]; ok {
			entries[i].Seats = append(entries[i].Seats, seat)
		}
	}
	return entries, srows.Err()
}
