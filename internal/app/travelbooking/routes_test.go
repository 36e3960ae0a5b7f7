package travelbooking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/travel-booking/internal/lib/email"
	"github.com/magabrotheeeer/travel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	"github.com/magabrotheeeer/travel-booking/internal/lib/ratelimit"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
	authservice "github.com/magabrotheeeer/travel-booking/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/travel-booking/internal/services/booking"
	cartservice "github.com/magabrotheeeer/travel-booking/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/travel-booking/internal/services/catalog"
	hotelservice "github.com/magabrotheeeer/travel-booking/internal/services/hotel"
	"github.com/magabrotheeeer/travel-booking/internal/storage/repository"
)

type testEnv struct {
	router http.Handler
	maker  jwt.Maker
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repository.NewWithDB(db)
	logger := sl.NewDiscardLogger()
	validate := validator.New()
	require.NoError(t, email.RegisterValidation(validate))
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	m := metrics.New()

	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Logger:         logger,
		Validate:       validate,
		JWTMaker:       maker,
		Metrics:        m,
		RequestLimiter: rate.NewLimiter(rate.Inf, 1),
		RequestTimeout: time.Second,
		DB:             store,
		Auth:           authservice.NewService(logger, store, ratelimit.NewMemory(time.Minute, 5, 100), maker, m, nil),
		Catalog:        catalogservice.NewService(store, nil, time.Minute, logger),
		Hotels:         hotelservice.NewService(store, nil, time.Minute, logger),
		Cart:           cartservice.NewService(store, logger),
		Booking:        bookingservice.NewService(store, nil, m, logger),
	})
	return &testEnv{router: r, maker: maker, mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		token, err := e.maker.GenerateToken(7, "vinay@trip.com", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRoutes_Access(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		role   string
		want   int
	}{
		{name: "profile requires token", method: http.MethodGet, path: "/api/v1/profile", want: http.StatusUnauthorized},
		{name: "cart requires token", method: http.MethodGet, path: "/api/v1/cart", want: http.StatusUnauthorized},
		{name: "bookings require token", method: http.MethodPost, path: "/api/v1/bookings", body: `{}`, want: http.StatusUnauthorized},
		{name: "place create requires token", method: http.MethodPost, path: "/api/v1/places", body: `{}`, want: http.StatusUnauthorized},
		{name: "place create forbidden for user", method: http.MethodPost, path: "/api/v1/places", body: `{}`, role: models.RoleUser, want: http.StatusForbidden},
		{name: "hotel delete forbidden for user", method: http.MethodDelete, path: "/api/v1/hotels/1", role: models.RoleUser, want: http.StatusForbidden},
		{name: "admin reaches validation", method: http.MethodPost, path: "/api/v1/places", body: `{}`, role: models.RoleAdmin, want: http.StatusUnprocessableEntity},
		{name: "signup validates body", method: http.MethodPost, path: "/api/v1/signup", body: `{}`, want: http.StatusUnprocessableEntity},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nowhere", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, tt.method, tt.path, tt.body, tt.role)
			assert.Equal(t, tt.want, w.Code)
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestRoutes_ProfileUpdateTargetsTokenUserID(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`(?s)UPDATE users.*WHERE user_id = \$4`).
		WithArgs("Alice", "alice@trip.com", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()
	env.mock.ExpectQuery(`SELECT user_id, name, email, password, role\s+FROM users\s+WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password", "role"}).
			AddRow(7, "Alice", "alice@trip.com", "hash", models.RoleUser))

	w := env.do(t, http.MethodPut, "/api/v1/profile", `{"name":"Alice","email":"alice@trip.com","password":"secret12"}`, models.RoleUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRoutes_Health(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectPing()

	w := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRoutes_Metrics(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/api/v1/profile", "", "")
	w := env.do(t, http.MethodGet, "/metrics", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/v1/profile"`)
}

func TestRoutes_Docs(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/docs/doc.json", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/hotels/available"`)
}

func TestRoutes_RequestRateLimit(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := repository.NewWithDB(db)
	logger := sl.NewDiscardLogger()
	m := metrics.New()

	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Logger:         logger,
		Validate:       validator.New(),
		JWTMaker:       jwt.NewJWTMaker("test-secret", time.Hour),
		Metrics:        m,
		RequestLimiter: rate.NewLimiter(rate.Every(time.Hour), 1),
		RequestTimeout: time.Second,
		DB:             store,
		Auth:           authservice.NewService(logger, store, ratelimit.NewMemory(time.Minute, 5, 100), nil, m, nil),
		Catalog:        catalogservice.NewService(store, nil, time.Minute, logger),
		Hotels:         hotelservice.NewService(store, nil, time.Minute, logger),
		Cart:           cartservice.NewService(store, logger),
		Booking:        bookingservice.NewService(store, nil, m, logger),
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
