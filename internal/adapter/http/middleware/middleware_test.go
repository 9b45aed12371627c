package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "good-token"

type tokenChecker struct {
	user *models.User
}

func (c tokenChecker) RoleCheck(_ context.Context, token string) (*models.User, error) {
	if token != goodToken {
		return nil, types.ErrInvalidToken
	}
	return c.user, nil
}

func newTestMiddleware() (*Middleware, *models.User) {
	u := &models.User{ID: uuid.New(), Name: "dom", Role: types.RoleDriver}
	return NewMiddleware(tokenChecker{user: u}, logger.New(io.Discard, "test", logger.LevelError)), u
}

// whoami replies with the role the handler sees.
func whoami(w http.ResponseWriter, r *http.Request) {
	u := models.UserFromContext(r.Context())
	if u == nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	io.WriteString(w, u.Role.String())
}

func TestAuth(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.Auth(http.HandlerFunc(whoami))

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{name: "anonymous", wantCode: http.StatusOK, wantBody: "ANONYMOUS"},
		{name: "bearer", header: "Bearer " + goodToken, wantCode: http.StatusOK, wantBody: "DRIVER"},
		{name: "lowercase scheme", header: "bearer " + goodToken, wantCode: http.StatusOK, wantBody: "DRIVER"},
		{name: "query token", query: "?access_token=" + goodToken, wantCode: http.StatusOK, wantBody: "DRIVER"},
		{name: "bad token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "bad scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/trips"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireDriver(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.Auth(m.RequireDriver(whoami))

	r := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	r.Header.Set("Authorization", "Bearer "+goodToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles_WrongRole(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.RequireRoles(whoami, types.UserRole("ADMIN"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	u := &models.User{ID: uuid.New(), Role: types.RoleDriver}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r.WithContext(models.WithUser(r.Context(), u)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_AddsDriverToLogContext(t *testing.T) {
	m, u := newTestMiddleware()

	var got string
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = wrap.FromContext(r.Context()).DriverID
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+goodToken)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, u.ID.String(), got)
}

func TestRequestID(t *testing.T) {
	m, _ := newTestMiddleware()

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = wrap.FromContext(r.Context()).RequestID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, seen)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestRecover(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("kaboom"))
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestCORS(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.CORS([]string{"http://app.local"})(http.HandlerFunc(whoami))

	r := httptest.NewRequest(http.MethodOptions, "/trips", nil)
	r.Header.Set("Origin", "http://app.local")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "http://app.local", rec.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/trips", nil)
	r.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouteLabel(t *testing.T) {
	id := uuid.NewString()
	tests := []struct{ in, want string }{
		{"/health", "/health"},
		{"/trips/" + id, "/trips/:id"},
		{"/trips/" + id + "/drive", "/trips/:id/drive"},
		{"/trips/" + id + "/speed", "/trips/:id/speed"},
		{"/ws/trips/" + id, "/ws/trips/:id"},
		{"/speed/35", "/speed/:pct"},
		{"/destinations", "/destinations"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, routeLabel(tt.in), tt.in)
	}
}
