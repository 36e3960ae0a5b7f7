package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

var hotelColumns = []any{"id", "name", "location", "place", "price_per_night", "available_rooms"}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(row rowScanner) (models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.Location, &h.Place, &h.PricePerNight, &h.AvailableRooms)
	return h, err
}

// ListHotels возвращает отели, у которых name или location содержит term
// без учета регистра, упорядоченные по id. Пустой term возвращает все отели.
func (s *Storage) ListHotels(ctx context.Context, term string) ([]models.Hotel, error) {
	const op = "storage.ListHotels"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	ds := s.dialect.From("hotels").Select(hotelColumns...).Order(goqu.C("id").Asc())
	if cond, ok := searchCondition(term); ok {
		ds = ds.Where(cond)
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.queryHotels(ctx, op, query, args...)
}

// GetHotel возвращает отель по id или storage.ErrNotFound.
func (s *Storage) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	const op = "storage.GetHotel"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := s.dialect.From("hotels").Select(hotelColumns...).
		Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	h, err := scanHotel(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return &h, nil
}

// AddHotel добавляет отель и возвращает его id.
func (s *Storage) AddHotel(ctx context.Context, h models.Hotel) (int64, error) {
	const op = "storage.AddHotel"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	query, args, err := s.dialect.Insert("hotels").Rows(hotelRecord(h)).
		Returning("id").Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateHotel перезаписывает поля отеля h.ID.
func (s *Storage) UpdateHotel(ctx context.Context, h models.Hotel) error {
	const op = "storage.UpdateHotel"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query, args, err := s.dialect.Update("hotels").Set(hotelRecord(h)).
		Where(goqu.C("id").Eq(h.ID)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return checkAffected(res)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveHotel удаляет отель. Отель с бронированиями удалить нельзя:
// возвращается storage.ErrConstraintViolation.
func (s *Storage) RemoveHotel(ctx context.Context, id int64) error {
	const op = "storage.RemoveHotel"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query, args, err := s.dialect.Delete("hotels").Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return checkAffected(res)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) queryHotels(ctx context.Context, op, query string, args ...any) ([]models.Hotel, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return result, nil
}

func hotelRecord(h models.Hotel) goqu.Record {
	return goqu.Record{
		"name":            h.Name,
		"location":        h.Location,
		"place":           h.Place,
		"price_per_night": h.PricePerNight,
		"available_rooms": h.AvailableRooms,
	}
}
