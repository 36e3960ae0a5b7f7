// Package storage описывает ошибки слоя хранения и их классификацию.
//
// Конкретная реализация на PostgreSQL находится в пакете repository.
// Ошибка драйвера не теряется: сторожевая ошибка объединяется с ней,
// поэтому доступны и errors.Is(err, storage.ErrX), и errors.As(err, *pgconn.PgError).
package storage

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConnection — база недоступна или соединение потеряно.
	ErrConnection = errors.New("storage connection failure")
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail — почта уже занята другим пользователем.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrConstraintViolation — нарушено ограничение схемы.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotAvailable — в отеле не хватает свободных номеров на запрошенные даты.
	ErrNotAvailable = fmt.Errorf("%w: not enough rooms available", ErrConstraintViolation)
)

// UsersEmailConstraint — имя уникального ограничения на users.email.
const UsersEmailConstraint = "users_email_key"

// Classify сопоставляет ошибку драйвера со сторожевыми ошибками пакета.
// Нераспознанные ошибки возвращаются без изменений.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == UsersEmailConstraint {
				return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
			}
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		case pgerrcode.CheckViolation,
			pgerrcode.ForeignKeyViolation,
			pgerrcode.NotNullViolation,
			pgerrcode.RestrictViolation,
			pgerrcode.InvalidTextRepresentation,
			pgerrcode.NumericValueOutOfRange,
			pgerrcode.InvalidDatetimeFormat:
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
		if pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.AdminShutdown ||
			pgErr.Code == pgerrcode.CannotConnectNow {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return err
}
