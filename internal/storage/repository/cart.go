package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// AddCartItem добавляет направление в корзину. Повторное добавление того же
// направления заменяет people и days.
func (s *Storage) AddCartItem(ctx context.Context, item models.CartItem) error {
	const op = "storage.AddCartItem"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO cart (user_id, place_id, people, days)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id, place_id)
			  DO UPDATE SET people = EXCLUDED.people, days = EXCLUDED.days`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, item.UserID, item.PlaceID, item.People, item.Days)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveCartItem убирает направление из корзины или возвращает storage.ErrNotFound.
func (s *Storage) RemoveCartItem(ctx context.Context, userID, placeID int64) error {
	const op = "storage.RemoveCartItem"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query := `DELETE FROM cart WHERE user_id = $1 AND place_id = $2`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, userID, placeID)
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

// ListCartItems возвращает корзину пользователя вместе с данными направлений.
func (s *Storage) ListCartItems(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	const op = "storage.ListCartItems"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT p.place_id, p.name, p.location, p.description, p.cost, p.image_url,
			         c.people, c.days
			  FROM cart c
			  JOIN place p ON p.place_id = c.place_id
			  WHERE c.user_id = $1
			  ORDER BY p.place_id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.CartEntry, 0)
	for rows.Next() {
		var e models.CartEntry
		if err := rows.Scan(&e.Place.ID, &e.Place.Name, &e.Place.Location, &e.Place.Description,
			&e.Place.Cost, &e.Place.ImageURL, &e.People, &e.Days); err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return result, nil
}
