package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_attempts:"

// Redis хранит попытки в отсортированном множестве login_attempts:<key>,
// где score — время попытки в миллисекундах. Простаивающие ключи
// истекают в самом redis через PEXPIRE.
type Redis struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int
}

var _ Limiter = (*Redis)(nil)

// NewRedis создает ограничитель поверх клиента redis.
func NewRedis(client *redis.Client, window time.Duration, maxAttempts int) *Redis {
	return &Redis{client: client, window: window, maxAttempts: maxAttempts}
}

// IsLimited удаляет устаревшие попытки key и сравнивает остаток с порогом.
func (r *Redis) IsLimited(ctx context.Context, key string, now time.Time) (bool, error) {
	const op = "ratelimit.Redis.IsLimited"
	var card *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, keyPrefix+key, "-inf", r.cutoff(now))
		card = pipe.ZCard(ctx, keyPrefix+key)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return card.Val() >= int64(r.maxAttempts), nil
}

// RecordFailure добавляет попытку now и продлевает время жизни ключа на окно.
func (r *Redis) RecordFailure(ctx context.Context, key string, now time.Time) error {
	const op = "ratelimit.Redis.RecordFailure"
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, keyPrefix+key, "-inf", r.cutoff(now))
		pipe.ZAdd(ctx, keyPrefix+key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: uuid.NewString(),
		})
		pipe.PExpire(ctx, keyPrefix+key, r.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// cutoff — наибольший score, который уже вне окна: ts <= now - window.
func (r *Redis) cutoff(now time.Time) string {
	return strconv.FormatInt(now.Add(-r.window).UnixMilli(), 10)
}
