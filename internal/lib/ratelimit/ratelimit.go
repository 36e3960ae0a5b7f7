// Package ratelimit реализует ограничение неудачных попыток входа
// по скользящему окну.
//
// Ключом обычно служит почта пользователя. Попытка считается живой, пока
// now - ts < window; ключ заблокирован, когда живых попыток >= maxAttempts.
// Доступны два хранилища: Memory (в процессе) и Redis (общее для нескольких
// экземпляров API).
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/travel-booking/internal/config"
)

const (
	// BackendMemory хранит попытки в памяти процесса.
	BackendMemory = "memory"
	// BackendRedis хранит попытки в отсортированных множествах redis.
	BackendRedis = "redis"
)

// Limiter описывает ограничитель неудачных попыток.
type Limiter interface {
	// IsLimited сообщает, исчерпан ли лимит попыток для key на момент now.
	IsLimited(ctx context.Context, key string, now time.Time) (bool, error)
	// RecordFailure фиксирует неудачную попытку для key в момент now.
	RecordFailure(ctx context.Context, key string, now time.Time) error
}

// New создает Limiter по настройкам cfg. Для BackendRedis нужен rdb.
func New(cfg config.RateLimit, rdb *redis.Client) (Limiter, error) {
	const op = "ratelimit.New"
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(cfg.Window, cfg.MaxAttempts, cfg.MaxKeys), nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("%s: redis backend requires a redis client", op)
		}
		return NewRedis(rdb, cfg.Window, cfg.MaxAttempts), nil
	default:
		return nil, fmt.Errorf("%s: unknown backend %q", op, cfg.Backend)
	}
}

func alive(ts, now time.Time, window time.Duration) bool {
	return now.Sub(ts) < window
}
