package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

var placeColumns = []any{"place_id", "name", "location", "description", "cost", "image_url"}

// ListPlaces возвращает направления, у которых name или location содержит term
// без учета регистра, упорядоченные по id. Пустой term возвращает весь каталог.
func (s *Storage) ListPlaces(ctx context.Context, term string) ([]models.Place, error) {
	const op = "storage.ListPlaces"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	ds := s.dialect.From("place").Select(placeColumns...).Order(goqu.C("place_id").Asc())
	if cond, ok := searchCondition(term); ok {
		ds = ds.Where(cond)
	}
	query, args, err := ds.Prepared(true).ToSQL()
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

	result := make([]models.Place, 0)
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.Description, &p.Cost, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return result, nil
}

// GetPlace возвращает направление по id или storage.ErrNotFound.
func (s *Storage) GetPlace(ctx context.Context, id int64) (*models.Place, error) {
	const op = "storage.GetPlace"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := s.dialect.From("place").Select(placeColumns...).
		Where(goqu.C("place_id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Place
	err = s.DB.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.Name, &p.Location, &p.Description, &p.Cost, &p.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return &p, nil
}

// AddPlace добавляет направление и возвращает его id.
func (s *Storage) AddPlace(ctx context.Context, p models.Place) (int64, error) {
	const op = "storage.AddPlace"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	query, args, err := s.dialect.Insert("place").Rows(placeRecord(p)).
		Returning("place_id").Prepared(true).ToSQL()
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

// UpdatePlace перезаписывает поля направления p.ID.
func (s *Storage) UpdatePlace(ctx context.Context, p models.Place) error {
	const op = "storage.UpdatePlace"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query, args, err := s.dialect.Update("place").Set(placeRecord(p)).
		Where(goqu.C("place_id").Eq(p.ID)).Prepared(true).ToSQL()
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

// RemovePlace удаляет направление вместе со ссылками на него из корзин.
func (s *Storage) RemovePlace(ctx context.Context, id int64) error {
	const op = "storage.RemovePlace"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query, args, err := s.dialect.Delete("place").Where(goqu.C("place_id").Eq(id)).Prepared(true).ToSQL()
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

func placeRecord(p models.Place) goqu.Record {
	return goqu.Record{
		"name":        p.Name,
		"location":    p.Location,
		"description": p.Description,
		"cost":        p.Cost,
		"image_url":   p.ImageURL,
	}
}
