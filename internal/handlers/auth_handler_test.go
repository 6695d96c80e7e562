package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blogsphere/backend/internal/repositories"
	"github.com/blogsphere/backend/internal/services"
	"github.com/blogsphere/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	store, err := repositories.NewFileStore(t.TempDir())
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()

	authService := services.NewAuthService(store.Users)
	NewAuthHandler(authService, "test-secret").RegisterAuthRoutes(e.Group("/api/v1/auth"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginFlow(t *testing.T) {
	e := newAuthTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "alice", created.User.Username)
	assert.False(t, created.User.IsAdmin)

	// Duplicate username conflicts
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"b@x.com","password":"secret2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password rejected
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown user gets the same status as wrong password
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"username":"nobody","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"username":"alice","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e := newAuthTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"not-an-email","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
