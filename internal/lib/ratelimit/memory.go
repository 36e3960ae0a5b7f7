package ratelimit

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Memory хранит времена неудачных попыток в шардированной конкурентной карте.
// Чтение-изменение-запись по одному ключу выполняется под блокировкой шарда.
type Memory struct {
	attempts    cmap.ConcurrentMap[string, []time.Time]
	window      time.Duration
	maxAttempts int
	maxKeys     int
}

var _ Limiter = (*Memory)(nil)

// NewMemory создает ограничитель с окном window и порогом maxAttempts.
// maxKeys <= 0 снимает ограничение на число отслеживаемых ключей.
func NewMemory(window time.Duration, maxAttempts, maxKeys int) *Memory {
	return &Memory{
		attempts:    cmap.New[[]time.Time](),
		window:      window,
		maxAttempts: maxAttempts,
		maxKeys:     maxKeys,
	}
}

// IsLimited считает живые попытки key и удаляет ключ, если живых не осталось.
func (m *Memory) IsLimited(ctx context.Context, key string, now time.Time) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	live := 0
	m.attempts.RemoveCb(key, func(_ string, ts []time.Time, exists bool) bool {
		if !exists {
			return false
		}
		live = m.countAlive(ts, now)
		return live == 0
	})
	return live >= m.maxAttempts, nil
}

// RecordFailure отбрасывает устаревшие попытки key и добавляет now.
func (m *Memory) RecordFailure(ctx context.Context, key string, now time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if m.maxKeys > 0 && !m.attempts.Has(key) && m.attempts.Count() >= m.maxKeys {
		m.evict(now)
	}
	m.attempts.Upsert(key, nil, func(exist bool, valueInMap, _ []time.Time) []time.Time {
		if !exist {
			return []time.Time{now}
		}
		return append(m.prune(valueInMap, now), now)
	})
	return nil
}

// Sweep удаляет все ключи без живых попыток и возвращает их число.
func (m *Memory) Sweep(now time.Time) int {
	removed := 0
	for item := range m.attempts.IterBuffered() {
		ok := m.attempts.RemoveCb(item.Key, func(_ string, ts []time.Time, exists bool) bool {
			return exists && m.countAlive(ts, now) == 0
		})
		if ok {
			removed++
		}
	}
	return removed
}

// Run периодически вызывает Sweep, пока не отменен ctx.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Len возвращает число отслеживаемых ключей.
func (m *Memory) Len() int {
	return m.attempts.Count()
}

// evict освобождает место под новый ключ: сначала Sweep, затем при
// необходимости удаляется ключ с самой старой последней попыткой.
func (m *Memory) evict(now time.Time) {
	m.Sweep(now)
	if m.attempts.Count() < m.maxKeys {
		return
	}
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for item := range m.attempts.IterBuffered() {
		if len(item.Val) == 0 {
			continue
		}
		latest := item.Val[len(item.Val)-1]
		if !found || latest.Before(oldest) {
			oldestKey, oldest, found = item.Key, latest, true
		}
	}
	if found {
		m.attempts.Remove(oldestKey)
	}
}

func (m *Memory) prune(ts []time.Time, now time.Time) []time.Time {
	kept := make([]time.Time, 0, len(ts)+1)
	for _, t := range ts {
		if alive(t, now, m.window) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (m *Memory) countAlive(ts []time.Time, now time.Time) int {
	n := 0
	for _, t := range ts {
		if alive(t, now, m.window) {
			n++
		}
	}
	return n
}
