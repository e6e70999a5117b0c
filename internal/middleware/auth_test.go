package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokogo/sokogo-backend/internal/repository"
	"github.com/sokogo/sokogo-backend/internal/utils"
)

func setupUsers(t *testing.T) (*repository.UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewUserRepo(db), mock
}

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, reached
}

func TestHeaderAuthMissingHeader(t *testing.T) {
	users, _ := setupUsers(t)
	req := httptest.NewRequest(http.MethodGet, "/cart/get", nil)
	rec, reached := runMiddleware(HeaderAuth(users), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "User ID required")
}

func TestHeaderAuthUnknownUser(t *testing.T) {
	users, mock := setupUsers(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/cart/get", nil)
	req.Header.Set("userid", "9")
	rec, reached := runMiddleware(HeaderAuth(users), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestHeaderAuthResolvesUser(t *testing.T) {
	users, mock := setupUsers(t)
	cols := []string{"id", "first_name", "last_name", "email", "phone_number", "password_hash", "role", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(4, "Alice", "Smith", "a@b.co", "", "x", "buyer", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/cart/get", nil)
	req.Header.Set("user-id", "4")
	rec, reached := runMiddleware(HeaderAuth(users), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestBearerAuthAcceptsToken(t *testing.T) {
	users, _ := setupUsers(t)
	tok, err := utils.NewAccessToken("test-secret", 4, "seller", 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/items/seller/my-items", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	rec, reached := runMiddleware(BearerOrHeader("test-secret", users), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireRoleBlocksWrongRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(4))
	c.Set("role", "buyer")

	handler := RequireRole("admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
