package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/travel-booking/internal/storage"
)

// withTx выполняет fn в транзакции. При ошибке fn транзакция откатывается,
// иначе фиксируется. Ошибка возвращается уже классифицированной.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Classify(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", storage.Classify(err), rbErr)
		}
		return storage.Classify(err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Classify(err)
	}
	return nil
}

// checkAffected возвращает storage.ErrNotFound, если запрос не затронул ни одной строки.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func ctxDone(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}
