package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// TheaterRepo provides access to the theaters table.  Movie IDs attached
// to a theater come from the movies table rather than an embedded array.
type TheaterRepo struct {
	db *sql.DB
}

func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// Create inserts a theater and populates its ID.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theaters (name, location, total_seats) VALUES (?,?,?)`,
		t.Name, t.Location, t.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns one theater with the IDs of its movies.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	var t model.Theater
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, total_seats FROM theaters WHERE id=? LIMIT 1`,
		id).Scan(&t.ID, &t.Name, &t.Location, &t.TotalSeats)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM movies WHERE theater_id=? ORDER BY id`, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	t.MovieIDs = []uint64{}
	for rows.Next() {
		var mid uint64
		if err := rows.Scan(&mid); err != nil {
			return nil, err
		}
		t.MovieIDs = append(t.MovieIDs, mid)
	}
	return &t, rows.Err()
}

// ListAll returns all theaters.
func (r *TheaterRepo) ListAll(ctx context.Context) ([]model.Theater, error) {
	return r.list(ctx, "1=1")
}

// Search filters theaters by name and location substrings.
func (r *TheaterRepo) Search(ctx context.Context, name, location string) ([]model.Theater, error) {
	where := []string{}
	args := []any{}
	if name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(name)+"%")
	}
	if location != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(location)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return r.list(ctx, cond, args...)
}

func (r *TheaterRepo) list(ctx context.Context, cond string, args ...any) ([]model.Theater, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, total_seats FROM theaters WHERE `+cond+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.TotalSeats); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
