package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordN(t *testing.T, l Limiter, key string, at time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, l.RecordFailure(context.Background(), key, at))
	}
}

func TestMemory_SlidingWindow(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		failures int
		checkAt  time.Duration
		want     bool
	}{
		{name: "no failures", failures: 0, checkAt: 0, want: false},
		{name: "below threshold", failures: 4, checkAt: time.Second, want: false},
		{name: "threshold reached", failures: 5, checkAt: 0, want: true},
		{name: "still limited inside window", failures: 5, checkAt: 100 * time.Second, want: true},
		{name: "window edge is outside", failures: 5, checkAt: 300 * time.Second, want: false},
		{name: "released after window", failures: 5, checkAt: 301 * time.Second, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(300*time.Second, 5, 0)
			recordN(t, m, "user@trip.com", t0, tt.failures)

			limited, err := m.IsLimited(context.Background(), "user@trip.com", t0.Add(tt.checkAt))
			require.NoError(t, err)
			assert.Equal(t, tt.want, limited)
		})
	}
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(300*time.Second, 5, 0)
	recordN(t, m, "a@trip.com", t0, 5)

	limited, err := m.IsLimited(context.Background(), "b@trip.com", t0)
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestMemory_ExpiredKeyIsDroppedOnCheck(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Minute, 5, 0)
	recordN(t, m, "a@trip.com", t0, 2)
	require.Equal(t, 1, m.Len())

	limited, err := m.IsLimited(context.Background(), "a@trip.com", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, limited)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_RecordFailurePrunesOldAttempts(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Minute, 3, 0)
	recordN(t, m, "a@trip.com", t0, 2)
	recordN(t, m, "a@trip.com", t0.Add(2*time.Minute), 1)

	val, ok := m.attempts.Get("a@trip.com")
	require.True(t, ok)
	assert.Len(t, val, 1)
}

func TestMemory_Sweep(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Minute, 5, 0)
	recordN(t, m, "old@trip.com", t0, 1)
	recordN(t, m, "fresh@trip.com", t0.Add(50*time.Second), 1)

	removed := m.Sweep(t0.Add(70 * time.Second))
	assert.Equal(t, 1, removed)
	assert.True(t, m.attempts.Has("fresh@trip.com"))
	assert.False(t, m.attempts.Has("old@trip.com"))
}

func TestMemory_MaxKeysEvictsOldest(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Hour, 5, 2)
	recordN(t, m, "first@trip.com", t0, 1)
	recordN(t, m, "second@trip.com", t0.Add(time.Second), 1)
	recordN(t, m, "third@trip.com", t0.Add(2*time.Second), 1)

	assert.Equal(t, 2, m.Len())
	assert.False(t, m.attempts.Has("first@trip.com"))
	assert.True(t, m.attempts.Has("third@trip.com"))
}

func TestMemory_MaxKeysPrefersSweep(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Minute, 5, 2)
	recordN(t, m, "stale@trip.com", t0, 1)
	recordN(t, m, "recent@trip.com", t0.Add(50*time.Second), 1)
	recordN(t, m, "new@trip.com", t0.Add(90*time.Second), 1)

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.attempts.Has("recent@trip.com"))
	assert.True(t, m.attempts.Has("new@trip.com"))
}

func TestMemory_ConcurrentFailures(t *testing.T) {
	t0 := time.Now()
	m := NewMemory(time.Hour, 1000, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = m.RecordFailure(context.Background(), fmt.Sprintf("user%d@trip.com", i%5), t0)
			}
		}()
	}
	wg.Wait()

	total := 0
	for item := range m.attempts.IterBuffered() {
		total += len(item.Val)
	}
	assert.Equal(t, 500, total)
}

func TestMemory_CanceledContext(t *testing.T) {
	m := NewMemory(time.Minute, 5, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.IsLimited(ctx, "a@trip.com", time.Now())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.RecordFailure(ctx, "a@trip.com", time.Now()), context.Canceled)
}

func TestMemory_RunStopsOnCancel(t *testing.T) {
	m := NewMemory(time.Nanosecond, 5, 0)
	recordN(t, m, "a@trip.com", time.Now().Add(-time.Hour), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
