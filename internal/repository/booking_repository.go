package repository

import (
	"context"
	"database/sql"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// BookingRepo stores marketplace bookings (item reservations over a date
// range).  Cinema ticket bookings live in TicketRepo.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, user_id, item_id, check_in_date, check_out_date, total_price, status, additional_requests, created_at"

// Create inserts a booking in PENDING state and populates its ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (user_id, item_id, check_in_date, check_out_date, total_price, status, additional_requests)
		 VALUES (?,?,?,?,?,?,?)`,
		b.UserID, b.ItemID, b.CheckInDate, b.CheckOutDate, b.TotalPrice, b.Status, b.AdditionalRequests)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByIDForUser returns one booking scoped to its owner.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id=? AND user_id=? LIMIT 1`,
		bookingID, userID).Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.CheckInDate, &b.CheckOutDate,
		&b.TotalPrice, &b.Status, &b.AdditionalRequests, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE user_id=? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.ItemID, &b.CheckInDate, &b.CheckOutDate,
			&b.TotalPrice, &b.Status, &b.AdditionalRequests, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking to status, scoped to its owner.  Terminal
// states are enforced in SQL: a CANCELLED or COMPLETED booking never
// transitions again, and the attempt reports ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID, userID uint64, status string) (*model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND user_id=? AND status NOT IN (?,?)`,
		status, bookingID, userID, model.BookingCancelled, model.BookingCompleted)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish "gone" from "terminal" for the caller.
		if _, err := r.GetByIDForUser(ctx, bookingID, userID); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return r.GetByIDForUser(ctx, bookingID, userID)
}
