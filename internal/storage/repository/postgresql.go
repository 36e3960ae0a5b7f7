// Package repository реализует хранилище данных на основе PostgreSQL
// для каталога направлений, пользователей, корзины, отелей и бронирований.
//
// Каждый метод проверяет контекст до обращения к базе, каждая изменяющая
// операция выполняется в собственной транзакции, а ошибки драйвера
// классифицируются через storage.Classify.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	// Диалект postgres для построителя запросов goqu.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB      *sql.DB
	dialect goqu.DialectWrapper
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, storage.Classify(err))
	}

	return NewWithDB(db), nil
}

// NewWithDB оборачивает уже открытый пул.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{
		DB:      db,
		dialect: goqu.Dialect("postgres"),
	}
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, storage.Classify(err))
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
