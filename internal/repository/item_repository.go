package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/sokogo/sokogo-backend/internal/model"
)

// ItemRepo provides CRUD and search over marketplace listings.  Images
// live in the item_images table; the per-category feature variant is
// stored as a JSON column on items.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `i.id, i.title, i.description, i.category, i.subcategory,
	i.price, i.currency, i.district, i.city, i.address, i.seller_id,
	i.status, i.features, i.contact_phone, i.contact_email,
	i.created_at, i.updated_at`

// Create inserts an item together with its image rows in one transaction
// and populates the generated ID.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	features, err := json.Marshal(it.Features)
	if err != nil {
		return err
	}
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
	res, err := tx.ExecContext(ctx,
		`INSERT INTO items (title, description, category, subcategory, price, currency,
			district, city, address, seller_id, status, features, contact_phone, contact_email)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		it.Title, it.Description, it.Category, it.Subcategory, it.Price, it.Currency,
		it.Location.District, it.Location.City, it.Location.Address, it.SellerID,
		it.Status, features, it.ContactInfo.Phone, it.ContactInfo.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	if err := insertImagesTx(ctx, tx, it.ID, it.Images); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func insertImagesTx(ctx context.Context, tx *sql.Tx, itemID uint64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	query := `INSERT INTO item_images (item_id, url) VALUES `
	args := make([]interface{}, 0, len(urls)*2)
	for i, u := range urls {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, itemID, u)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns a single listing with its images.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (*model.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM items i WHERE i.id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, []*model.Item{it}); err != nil {
		return nil, err
	}
	return it, nil
}

// ItemFilter carries the optional search parameters of GET /api/items.
// Zero values mean "not filtered".  The listing endpoint only surfaces
// ACTIVE items; seller views pass AnyStatus to see everything they own.
type ItemFilter struct {
	Category    string
	Subcategory string
	MinPrice    float64
	MaxPrice    float64
	City        string
	Search      string
	AnyStatus   bool
	Page        int
	Limit       int
}

// List returns listings matching the filter, newest first, plus the total
// count for pagination.
func (r *ItemRepo) List(ctx context.Context, f ItemFilter) ([]*model.Item, int64, error) {
	where := []string{}
	args := []any{}

	if !f.AnyStatus {
		where = append(where, "i.status = ?")
		args = append(args, model.ItemStatusActive)
	}
	if f.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, f.Category)
	}
	if f.Subcategory != "" {
		where = append(where, "i.subcategory = ?")
		args = append(args, f.Subcategory)
	}
	if f.City != "" {
		where = append(where, "LOWER(i.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.City)+"%")
	}
	if f.MinPrice > 0 {
		where = append(where, "i.price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "i.price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.Search != "" {
		where = append(where, "(LOWER(i.title) LIKE ? OR LOWER(i.description) LIKE ?)")
		needle := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, needle, needle)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items i WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataSQL := `SELECT ` + itemCols + ` FROM items i WHERE ` + cond + `
		ORDER BY i.created_at DESC LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadImages(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListBySeller returns every listing owned by sellerID regardless of
// status, newest first.
func (r *ItemRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]*model.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM items i WHERE i.seller_id = ? ORDER BY i.created_at DESC`,
		sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Popular returns the newest limit ACTIVE listings in the category.
func (r *ItemRepo) Popular(ctx context.Context, category string, limit int) ([]*model.Item, error) {
	where := "i.status = ?"
	args := []any{model.ItemStatusActive}
	if category != "" {
		where += " AND i.category = ?"
		args = append(args, category)
	}
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM items i WHERE `+where+` ORDER BY i.created_at DESC LIMIT ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists the mutable fields of a listing.  The WHERE clause is
// scoped to the seller, so updating someone else's item reports
// ErrNotFound rather than leaking its existence.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	features, err := json.Marshal(it.Features)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET title=?, description=?, category=?, subcategory=?, price=?, currency=?,
			district=?, city=?, address=?, status=?, features=?, contact_phone=?, contact_email=?,
			updated_at=NOW()
		 WHERE id=? AND seller_id=?`,
		it.Title, it.Description, it.Category, it.Subcategory, it.Price, it.Currency,
		it.Location.District, it.Location.City, it.Location.Address,
		it.Status, features, it.ContactInfo.Phone, it.ContactInfo.Email,
		it.ID, it.SellerID)
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
	return nil
}

// Delete removes a listing and its images, scoped to the seller.
func (r *ItemRepo) Delete(ctx context.Context, id, sellerID uint64) error {
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
	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id=? AND seller_id=?`, id, sellerID)
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_images WHERE item_id=?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type itemScanner interface {
	Scan(dest ...any) error
}

func scanItem(row itemScanner) (*model.Item, error) {
	var it model.Item
	var features []byte
	var address sql.NullString
	err := row.Scan(
		&it.ID, &it.Title, &it.Description, &it.Category, &it.Subcategory,
		&it.Price, &it.Currency, &it.Location.District, &it.Location.City, &address,
		&it.SellerID, &it.Status, &features, &it.ContactInfo.Phone, &it.ContactInfo.Email,
		&it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	it.Location.Address = address.String
	if len(features) > 0 {
		if err := json.Unmarshal(features, &it.Features); err != nil {
			return nil, err
		}
	}
	it.Images = []string{}
	return &it, nil
}

func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// loadImages populates Images for every item in one query.
func (r *ItemRepo) loadImages(ctx context.Context, items []*model.Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]any, 0, len(items))
	placeholders := make([]string, 0, len(items))
	index := make(map[uint64]*model.Item, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		placeholders = append(placeholders, "?")
		index[it.ID] = it
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, url FROM item_images WHERE item_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY id`,
		ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var itemID uint64
		var url string
		if err := rows.Scan(&itemID, &url); err != nil {
			return err
		}
		if it, ok := index[itemID]; ok {
			it.Images = append(it.Images, url)
		}
	}
	return rows.Err()
}
