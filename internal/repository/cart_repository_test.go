package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCartGetByUserWithoutCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id FROM carts").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	repo := NewCartRepo(db)
	_, err = repo.GetByUser(context.Background(), 4)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user with no cart, got %v", err)
	}
}

func TestCartDeleteEntryTxMissingEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE e FROM cart_entries e").
		WithArgs(uint64(11), uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewCartRepo(db)
	err = repo.DeleteEntryTx(context.Background(), tx, 4, 11)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCartAddEntryCreatesCartOnFirstUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM carts").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO carts").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(20, 1))
	mock.ExpectExec("INSERT INTO cart_entries").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec("INSERT INTO cart_entry_seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewCartRepo(db)
	entry := testCartEntry()
	if err := repo.AddEntry(context.Background(), 4, entry); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.ID != 31 {
		t.Fatalf("expected entry id populated, got %d", entry.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
