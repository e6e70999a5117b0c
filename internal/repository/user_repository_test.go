package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sokogo/sokogo-backend/internal/model"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.uniq_email'"))

	repo := NewUserRepo(db)
	u := model.User{FirstName: "Alice", Email: "a@b.c", Role: model.RoleBuyer}
	_, err = repo.Create(context.Background(), u, "secret1", 4)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewUserRepo(db)
	_, err = repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "first_name", "last_name", "email", "phone_number", "password_hash", "role", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Alice", "Smith", "a@b.c", "0788000000", "$2a$04$hash", "seller", time.Now()))

	repo := NewUserRepo(db)
	u, err := repo.GetByEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.ID != 1 || u.Role != model.RoleSeller {
		t.Fatalf("unexpected user %+v", u)
	}
}
