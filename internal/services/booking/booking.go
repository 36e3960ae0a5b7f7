// Package booking содержит бизнес-логику бронирования номеров в отелях.
//
// Цена считается на сервере: price_per_night × число ночей × число номеров.
// После успешной брони публикуется событие для рассылки письма-подтверждения,
// ошибка публикации не отменяет бронь.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	"github.com/magabrotheeeer/travel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

var (
	// ErrInvalidDates даты не разбираются, выезд не позже заезда или заезд в прошлом.
	ErrInvalidDates = errors.New("invalid dates: expected YYYY-MM-DD, check-out after check-in, check-in not in the past")
	// ErrInvalidRooms запрошено меньше одного номера.
	ErrInvalidRooms = errors.New("rooms must be at least 1")
	// ErrNotAvailable свободных номеров на эти даты не хватает.
	ErrNotAvailable = storage.ErrNotAvailable
)

// Repository определяет методы хранилища, нужные бронированию.
type Repository interface {
	GetHotel(ctx context.Context, id int64) (*models.Hotel, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ReserveRooms(ctx context.Context, b models.Booking) (int64, error)
	ListBookingsForUser(ctx context.Context, userID int64) ([]models.Booking, error)
	FindAvailableHotels(ctx context.Context, checkIn, checkOut time.Time, rooms int) ([]models.Hotel, error)
}

// Publisher публикует события в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service оформляет и показывает бронирования.
type Service struct {
	repo      Repository
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service. publisher может быть nil,
// тогда письма-подтверждения не отправляются.
func NewService(repo Repository, publisher Publisher, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// ParseDates разбирает даты заезда и выезда и проверяет, что выезд позже заезда.
func ParseDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(models.DateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDates, err)
	}
	out, err := time.Parse(models.DateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDates, err)
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	return in, out, nil
}

// Create бронирует номера для userID и возвращает созданную бронь.
func (s *Service) Create(ctx context.Context, userID int64, req models.DummyBooking) (*models.Booking, error) {
	const op = "booking.Create"
	in, out, err := ParseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	y, m, d := s.now().UTC().Date()
	if in.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return nil, ErrInvalidDates
	}
	if req.Rooms < 1 {
		return nil, ErrInvalidRooms
	}

	hotel, err := s.repo.GetHotel(ctx, req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b := models.Booking{
		UserID:   userID,
		HotelID:  hotel.ID,
		CheckIn:  in,
		CheckOut: out,
		Rooms:    req.Rooms,
	}
	b.TotalPrice = totalPrice(hotel.PricePerNight, b.Nights(), b.Rooms)

	id, err := s.repo.ReserveRooms(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.ID = id
	s.metrics.BookingCreated()
	s.log.Info("hotel booked",
		slog.Int64("booking_id", id),
		slog.Int64("hotel_id", hotel.ID),
		slog.Int64("user_id", userID),
		slog.Int("rooms", b.Rooms),
	)

	s.notify(ctx, b, hotel)
	return &b, nil
}

// ListForUser возвращает бронирования пользователя.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("booking.ListForUser: %w", err)
	}
	return bookings, nil
}

// FindAvailable возвращает отели, где на даты [checkIn, checkOut) свободно не меньше rooms номеров.
func (s *Service) FindAvailable(ctx context.Context, checkIn, checkOut string, rooms int) ([]models.Hotel, error) {
	in, out, err := ParseDates(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if rooms < 1 {
		return nil, ErrInvalidRooms
	}
	hotels, err := s.repo.FindAvailableHotels(ctx, in, out, rooms)
	if err != nil {
		return nil, fmt.Errorf("booking.FindAvailable: %w", err)
	}
	return hotels, nil
}

func (s *Service) notify(ctx context.Context, b models.Booking, hotel *models.Hotel) {
	if s.publisher == nil {
		return
	}
	log := s.log.With(slog.Int64("booking_id", b.ID))

	user, err := s.repo.GetUserByID(ctx, b.UserID)
	if err != nil {
		log.Warn("failed to load guest for confirmation", sl.Err(err))
		return
	}
	msg := models.BookingNotification{
		BookingID:  b.ID,
		Email:      user.Email,
		Name:       user.Name,
		HotelName:  hotel.Name,
		Location:   hotel.Location,
		CheckIn:    b.CheckIn.Format(models.DateLayout),
		CheckOut:   b.CheckOut.Format(models.DateLayout),
		Rooms:      b.Rooms,
		TotalPrice: b.TotalPrice,
	}
	if err := s.publisher.Publish(ctx, rabbitmq.BookingConfirmedKey, msg); err != nil {
		log.Warn("failed to publish booking confirmation", sl.Err(err))
		return
	}
	log.Debug("booking confirmation published")
}

// totalPrice округляет до копеек, как NUMERIC(12,2) в базе.
func totalPrice(perNight float64, nights, rooms int) float64 {
	return math.Round(perNight*float64(nights)*float64(rooms)*100) / 100
}
