package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/travel-booking/internal/config"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_SlidingWindow(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		failures int
		checkAt  time.Duration
		want     bool
	}{
		{name: "below threshold", failures: 4, checkAt: time.Second, want: false},
		{name: "limited at t+100s", failures: 5, checkAt: 100 * time.Second, want: true},
		{name: "released at t+301s", failures: 5, checkAt: 301 * time.Second, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := setupRedis(t)
			r := NewRedis(client, 300*time.Second, 5)
			recordN(t, r, "user@trip.com", t0, tt.failures)

			limited, err := r.IsLimited(context.Background(), "user@trip.com", t0.Add(tt.checkAt))
			require.NoError(t, err)
			assert.Equal(t, tt.want, limited)
		})
	}
}

func TestRedis_KeyLayoutAndExpiry(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedis(client, 300*time.Second, 5)
	now := time.Now()

	recordN(t, r, "user@trip.com", now, 2)

	require.True(t, mr.Exists("login_attempts:user@trip.com"))
	members, err := mr.ZMembers("login_attempts:user@trip.com")
	require.NoError(t, err)
	assert.Len(t, members, 2, "every failure is a distinct member")
	assert.Equal(t, 300*time.Second, mr.TTL("login_attempts:user@trip.com"))

	mr.FastForward(301 * time.Second)
	assert.False(t, mr.Exists("login_attempts:user@trip.com"))
}

func TestRedis_ConnectionError(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedis(client, time.Minute, 5)
	mr.Close()

	_, err := r.IsLimited(context.Background(), "user@trip.com", time.Now())
	assert.Error(t, err)
	assert.Error(t, r.RecordFailure(context.Background(), "user@trip.com", time.Now()))
}

func TestNew(t *testing.T) {
	_, client := setupRedis(t)

	tests := []struct {
		name    string
		backend string
		client  *redis.Client
		want    any
		wantErr bool
	}{
		{name: "memory", backend: BackendMemory, want: &Memory{}},
		{name: "default", backend: "", want: &Memory{}},
		{name: "redis", backend: BackendRedis, client: client, want: &Redis{}},
		{name: "redis without client", backend: BackendRedis, wantErr: true},
		{name: "unknown", backend: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(config.RateLimit{Backend: tt.backend, Window: time.Minute, MaxAttempts: 5}, tt.client)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}
}
