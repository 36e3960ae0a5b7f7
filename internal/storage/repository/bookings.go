package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// Бронирования пересекаются с интервалом [$in, $out), если
// check_in_date < $out AND check_out_date > $in.

const insertBookingQuery = `INSERT INTO hotel_bookings
			  (user_id, hotel_id, check_in_date, check_out_date, number_of_rooms, total_price)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`

// CreateBooking вставляет бронирование без проверки свободных номеров.
func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (int64, error) {
	const op = "storage.CreateBooking"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, insertBookingQuery,
			b.UserID, b.HotelID, b.CheckIn, b.CheckOut, b.Rooms, b.TotalPrice).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReserveRooms атомарно проверяет наличие номеров и создает бронирование.
// Строка отеля блокируется до конца транзакции, поэтому параллельные
// бронирования одного отеля выполняются по очереди.
// Нехватка номеров дает storage.ErrNotAvailable, неизвестный отель — storage.ErrNotFound.
func (s *Storage) ReserveRooms(ctx context.Context, b models.Booking) (int64, error) {
	const op = "storage.ReserveRooms"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var total int
		err := tx.QueryRowContext(ctx,
			`SELECT available_rooms FROM hotels WHERE id = $1 FOR UPDATE`, b.HotelID).Scan(&total)
		if err != nil {
			return err
		}

		var booked int
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(number_of_rooms), 0)
			 FROM hotel_bookings
			 WHERE hotel_id = $1 AND check_in_date < $2 AND check_out_date > $3`,
			b.HotelID, b.CheckOut, b.CheckIn).Scan(&booked)
		if err != nil {
			return err
		}
		if total-booked < b.Rooms {
			return storage.ErrNotAvailable
		}

		return tx.QueryRowContext(ctx, insertBookingQuery,
			b.UserID, b.HotelID, b.CheckIn, b.CheckOut, b.Rooms, b.TotalPrice).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListBookingsForUser возвращает бронирования пользователя, новые первыми.
func (s *Storage) ListBookingsForUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	const op = "storage.ListBookingsForUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := s.dialect.From("hotel_bookings").
		Select("id", "user_id", "hotel_id", "check_in_date", "check_out_date", "number_of_rooms", "total_price").
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("check_in_date").Desc(), goqu.C("id").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.HotelID, &b.CheckIn, &b.CheckOut,
			&b.Rooms, &b.TotalPrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return result, nil
}

// FindAvailableHotels возвращает отели, в которых на [checkIn, checkOut)
// свободно не меньше rooms номеров с учетом всех пересекающихся бронирований.
func (s *Storage) FindAvailableHotels(ctx context.Context, checkIn, checkOut time.Time, rooms int) ([]models.Hotel, error) {
	const op = "storage.FindAvailableHotels"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT h.id, h.name, h.location, h.place, h.price_per_night, h.available_rooms
			  FROM hotels h
			  LEFT JOIN hotel_bookings b
			    ON b.hotel_id = h.id
			   AND b.check_in_date < $1
			   AND b.check_out_date > $2
			  GROUP BY h.id
			  HAVING h.available_rooms - COALESCE(SUM(b.number_of_rooms), 0) >= $3
			  ORDER BY h.id`
	return s.queryHotels(ctx, op, query, checkOut, checkIn, rooms)
}
