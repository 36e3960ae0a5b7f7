package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/travel-booking/internal/migrations"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, filepath.Join(root, "migrations")))
	return s
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	t       *testing.T
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(t *testing.T, storage *Storage) *TestDataFactory {
	return &TestDataFactory{t: t, storage: storage}
}

func (f *TestDataFactory) User(email string) int64 {
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Name: "Test", Email: email, PasswordHash: "hash", Role: models.RoleUser,
	})
	require.NoError(f.t, err)
	return id
}

func (f *TestDataFactory) Place(name, location string, cost float64) int64 {
	id, err := f.storage.AddPlace(context.Background(), models.Place{Name: name, Location: location, Cost: cost})
	require.NoError(f.t, err)
	return id
}

func (f *TestDataFactory) Hotel(name string, rooms int) int64 {
	id, err := f.storage.AddHotel(context.Background(), models.Hotel{
		Name: name, Location: "Goa", Place: "Goa Beach", PricePerNight: 2000, AvailableRooms: rooms,
	})
	require.NoError(f.t, err)
	return id
}

func (f *TestDataFactory) Booking(userID, hotelID int64, in, out time.Time, rooms int) int64 {
	id, err := f.storage.CreateBooking(context.Background(), models.Booking{
		UserID: userID, HotelID: hotelID, CheckIn: in, CheckOut: out, Rooms: rooms, TotalPrice: 1,
	})
	require.NoError(f.t, err)
	return id
}

func date(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
