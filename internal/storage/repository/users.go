package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/travel-booking/internal/models"
	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Занятая почта дает storage.ErrDuplicateEmail.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	query := `INSERT INTO users (name, email, password, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING user_id`
	var newID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, role).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по почте или storage.ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT user_id, name, email, password, role
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID или storage.ErrNotFound.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT user_id, name, email, password, role
			  FROM users
			  WHERE user_id = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return u, nil
}

// UpdateUser меняет имя и почту пользователя с почтой currentEmail.
// Пароль перезаписывается только при passwordHash != nil.
func (s *Storage) UpdateUser(ctx context.Context, currentEmail, name, newEmail string, passwordHash *string) error {
	const op = "storage.UpdateUser"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}
	if err := s.updateUser(ctx, "email = $4", currentEmail, name, newEmail, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUserByID то же, что UpdateUser, но ищет пользователя по ID.
func (s *Storage) UpdateUserByID(ctx context.Context, id int64, name, newEmail string, passwordHash *string) error {
	const op = "storage.UpdateUserByID"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}
	if err := s.updateUser(ctx, "user_id = $4", id, name, newEmail, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) updateUser(ctx context.Context, where string, key any, name, newEmail string, passwordHash *string) error {
	query := `UPDATE users
			  SET name = $1,
			      email = $2,
			      password = COALESCE($3, password)
			  WHERE ` + where
	var hash sql.NullString
	if passwordHash != nil {
		hash = sql.NullString{String: *passwordHash, Valid: true}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, name, newEmail, hash, key)
		if err != nil {
			return err
		}
		return checkAffected(res)
	})
}

// UpdatePasswordHash заменяет хэш пароля пользователя id.
func (s *Storage) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET password = $1 WHERE user_id = $2`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, passwordHash, id)
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
