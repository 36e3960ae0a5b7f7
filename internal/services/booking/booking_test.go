package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	"github.com/magabrotheeeer/travel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hotel), args.Error(1)
}

func (m *RepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ReserveRooms(ctx context.Context, b models.Booking) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListBookingsForUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *RepoMock) FindAvailableHotels(ctx context.Context, checkIn, checkOut time.Time, rooms int) ([]models.Hotel, error) {
	args := m.Called(ctx, checkIn, checkOut, rooms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hotel), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

var (
	today = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)
	taj   = &models.Hotel{ID: 3, Name: "Taj", Location: "Mumbai", PricePerNight: 250, AvailableRooms: 5}
	guest = &models.User{ID: 1, Name: "Manasa", Email: "manasa@trip.com", Role: models.RoleUser}
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func newTestService(repo Repository, pub Publisher, m *metrics.Metrics) *Service {
	svc := NewService(repo, pub, m, sl.NewDiscardLogger())
	svc.now = func() time.Time { return today }
	return svc
}

func TestService_Create(t *testing.T) {
	repo, pub := new(RepoMock), new(PublisherMock)
	m := metrics.New()
	svc := newTestService(repo, pub, m)

	want := models.Booking{
		UserID:     1,
		HotelID:    3,
		CheckIn:    day("2024-06-01"),
		CheckOut:   day("2024-06-04"),
		Rooms:      2,
		TotalPrice: 1500,
	}
	repo.On("GetHotel", mock.Anything, int64(3)).Return(taj, nil).Once()
	repo.On("ReserveRooms", mock.Anything, want).Return(int64(11), nil).Once()
	repo.On("GetUserByID", mock.Anything, int64(1)).Return(guest, nil).Once()
	pub.On("Publish", mock.Anything, rabbitmq.BookingConfirmedKey, models.BookingNotification{
		BookingID:  11,
		Email:      "manasa@trip.com",
		Name:       "Manasa",
		HotelName:  "Taj",
		Location:   "Mumbai",
		CheckIn:    "2024-06-01",
		CheckOut:   "2024-06-04",
		Rooms:      2,
		TotalPrice: 1500,
	}).Return(nil).Once()

	b, err := svc.Create(context.Background(), 1, models.DummyBooking{
		HotelID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-04", Rooms: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.ID)
	assert.Equal(t, 1500.0, b.TotalPrice)
	assert.Contains(t, scrape(t, m), "travel_bookings_created_total 1")
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_CreateSameDayCheckIn(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, nil, nil)
	repo.On("GetHotel", mock.Anything, int64(3)).Return(taj, nil)
	repo.On("ReserveRooms", mock.Anything, mock.Anything).Return(int64(1), nil)

	b, err := svc.Create(context.Background(), 1, models.DummyBooking{
		HotelID: 3, CheckIn: "2024-05-20", CheckOut: "2024-05-21", Rooms: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, b.TotalPrice)
	repo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyBooking
		wantErr error
	}{
		{name: "bad layout", req: models.DummyBooking{HotelID: 3, CheckIn: "01-06-2024", CheckOut: "2024-06-04", Rooms: 1}, wantErr: ErrInvalidDates},
		{name: "check-out equals check-in", req: models.DummyBooking{HotelID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-01", Rooms: 1}, wantErr: ErrInvalidDates},
		{name: "check-out before check-in", req: models.DummyBooking{HotelID: 3, CheckIn: "2024-06-05", CheckOut: "2024-06-01", Rooms: 1}, wantErr: ErrInvalidDates},
		{name: "check-in in the past", req: models.DummyBooking{HotelID: 3, CheckIn: "2024-05-19", CheckOut: "2024-05-22", Rooms: 1}, wantErr: ErrInvalidDates},
		{name: "zero rooms", req: models.DummyBooking{HotelID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-04"}, wantErr: ErrInvalidRooms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo, nil, nil)

			_, err := svc.Create(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "ReserveRooms", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateNotAvailable(t *testing.T) {
	repo, pub := new(RepoMock), new(PublisherMock)
	svc := newTestService(repo, pub, nil)
	repo.On("GetHotel", mock.Anything, int64(3)).Return(taj, nil)
	repo.On("ReserveRooms", mock.Anything, mock.Anything).
		Return(int64(0), fmt.Errorf("storage.ReserveRooms: %w", storage.ErrNotAvailable))

	_, err := svc.Create(context.Background(), 1, models.DummyBooking{
		HotelID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-04", Rooms: 9,
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.ErrorIs(t, err, storage.ErrConstraintViolation)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateUnknownHotel(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, nil, nil)
	repo.On("GetHotel", mock.Anything, int64(404)).Return(nil, storage.ErrNotFound)

	_, err := svc.Create(context.Background(), 1, models.DummyBooking{
		HotelID: 404, CheckIn: "2024-06-01", CheckOut: "2024-06-04", Rooms: 1,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_CreatePublishFailureKeepsBooking(t *testing.T) {
	repo, pub := new(RepoMock), new(PublisherMock)
	svc := newTestService(repo, pub, nil)
	repo.On("GetHotel", mock.Anything, int64(3)).Return(taj, nil)
	repo.On("ReserveRooms", mock.Anything, mock.Anything).Return(int64(12), nil)
	repo.On("GetUserByID", mock.Anything, int64(1)).Return(guest, nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	b, err := svc.Create(context.Background(), 1, models.DummyBooking{
		HotelID: 3, CheckIn: "2024-06-01", CheckOut: "2024-06-02", Rooms: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), b.ID)
}

func TestService_FindAvailable(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, nil, nil)
	repo.On("FindAvailableHotels", mock.Anything, day("2024-06-01"), day("2024-06-04"), 2).
		Return([]models.Hotel{*taj}, nil)

	hotels, err := svc.FindAvailable(context.Background(), "2024-06-01", "2024-06-04", 2)
	require.NoError(t, err)
	assert.Len(t, hotels, 1)

	_, err = svc.FindAvailable(context.Background(), "2024-06-04", "2024-06-01", 2)
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = svc.FindAvailable(context.Background(), "2024-06-01", "2024-06-04", 0)
	assert.ErrorIs(t, err, ErrInvalidRooms)
}

func TestService_ListForUser(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, nil, nil)
	repo.On("ListBookingsForUser", mock.Anything, int64(1)).Return(nil, storage.ErrConnection)

	_, err := svc.ListForUser(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrConnection)
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 0.3, totalPrice(0.1, 3, 1))
	assert.Equal(t, 1500.0, totalPrice(250, 3, 2))
	assert.Zero(t, totalPrice(0, 3, 2))
}
