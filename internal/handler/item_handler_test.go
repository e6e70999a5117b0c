package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokogo/sokogo-backend/internal/repository"
)

func newItemHandler(t *testing.T) (*ItemHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewItemHandler(repository.NewItemRepo(db), repository.NewUserRepo(db), nil, nil), mock
}

func TestCreateItemRequiresAuth(t *testing.T) {
	h, _ := newItemHandler(t)
	c, rec := jsonRequest(http.MethodPost, "/api/items", `{}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A missing price fails validation before any database access, and the
// error names the field.
func TestCreateItemMissingPriceNamesField(t *testing.T) {
	h, _ := newItemHandler(t)
	c, rec := jsonRequest(http.MethodPost, "/api/items", `{
		"title": "Toyota Corolla",
		"description": "Clean car, single owner",
		"category": "MOTORS",
		"location": {"district": "Gasabo", "city": "Kigali"}
	}`)
	c.Set("user_id", uint64(4))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price")
}

func TestCreateItemUnknownCategory(t *testing.T) {
	h, _ := newItemHandler(t)
	c, rec := jsonRequest(http.MethodPost, "/api/items", `{
		"title": "Thing",
		"description": "A thing for sale",
		"category": "FURNITURE",
		"price": 100,
		"location": {"district": "Gasabo", "city": "Kigali"}
	}`)
	c.Set("user_id", uint64(4))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")
}

func TestListItemsRejectsUnknownCategory(t *testing.T) {
	h, _ := newItemHandler(t)
	c, rec := jsonRequest(http.MethodGet, "/api/items?category=furniture", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
