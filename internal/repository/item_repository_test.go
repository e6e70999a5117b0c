package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sokogo/sokogo-backend/internal/model"
)

var itemRowCols = []string{
	"id", "title", "description", "category", "subcategory",
	"price", "currency", "district", "city", "address", "seller_id",
	"status", "features", "contact_phone", "contact_email",
	"created_at", "updated_at",
}

func itemRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(itemRowCols).AddRow(
		1, "Toyota Corolla", "Clean car", "MOTORS", "sedan",
		8500000, "Frw", "Gasabo", "Kigali", "KG 11 Ave", 4,
		"ACTIVE", []byte(`{"motors":{"brand":"Toyota","year":2015}}`), "0788000000", "seller@x.rw",
		now, now)
}

func TestItemListAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// status guard first, then category and minPrice, then pagination
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM items").
		WithArgs("ACTIVE", "MOTORS", 1000.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM items i WHERE").
		WithArgs("ACTIVE", "MOTORS", 1000.0, 10, 0).
		WillReturnRows(itemRow())
	mock.ExpectQuery("SELECT item_id, url FROM item_images").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "url"}).
			AddRow(1, "/uploads/abc.jpg"))

	repo := NewItemRepo(db)
	items, total, err := repo.List(context.Background(), ItemFilter{
		Category: model.CategoryMotors,
		MinPrice: 1000,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 item, got %d (total %d)", len(items), total)
	}
	it := items[0]
	if it.Features.Motors == nil || it.Features.Motors.Brand != "Toyota" {
		t.Fatalf("features not decoded: %+v", it.Features)
	}
	if len(it.Images) != 1 || it.Images[0] != "/uploads/abc.jpg" {
		t.Fatalf("images not loaded: %v", it.Images)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemUpdateScopedToSeller(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// zero rows affected: no such item, or the caller does not own it
	mock.ExpectExec("UPDATE items").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewItemRepo(db)
	err = repo.Update(context.Background(), &model.Item{
		ID:       5,
		SellerID: 9,
		Title:    "Updated",
		Category: model.CategoryMotors,
		Price:    100,
		Status:   model.ItemStatusActive,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
