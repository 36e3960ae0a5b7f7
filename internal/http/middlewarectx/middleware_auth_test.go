package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/travel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/travel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("middleware-secret", time.Hour)
	valid, err := maker.GenerateToken(7, "vinay@trip.com", models.RoleUser)
	require.NoError(t, err)
	expired, err := jwt.NewJWTMaker("middleware-secret", -time.Minute).GenerateToken(7, "vinay@trip.com", models.RoleUser)
	require.NoError(t, err)
	foreign, err := jwt.NewJWTMaker("other-secret", time.Hour).GenerateToken(7, "vinay@trip.com", models.RoleAdmin)
	require.NoError(t, err)

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		id, ok := middlewarectx.UserIDFrom(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
		addr, ok := middlewarectx.EmailFrom(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "vinay@trip.com", addr)
		assert.Equal(t, models.RoleUser, r.Context().Value(middlewarectx.Role))
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewarectx.JWTMiddleware(maker, sl.NewDiscardLogger())(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "missing Authorization header", authHeader: "", wantStatusCode: http.StatusUnauthorized},
		{name: "invalid Authorization header prefix", authHeader: "Basic sometoken", wantStatusCode: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer token", wantStatusCode: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expired, wantStatusCode: http.StatusUnauthorized},
		{name: "token signed with another key", authHeader: "Bearer " + foreign, wantStatusCode: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + valid, wantStatusCode: http.StatusOK, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	maker := jwt.NewJWTMaker("middleware-secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	chain := middlewarectx.JWTMiddleware(maker, sl.NewDiscardLogger())(
		middlewarectx.AdminOnly(sl.NewDiscardLogger())(ok),
	)

	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "admin", role: models.RoleAdmin, want: http.StatusNoContent},
		{name: "user", role: models.RoleUser, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(1, "a1@trip.com", tt.role)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/places", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			chain.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)
	h := middlewarectx.RateLimitMiddleware(sl.NewDiscardLogger(), limiter)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
