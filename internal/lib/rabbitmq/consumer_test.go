package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
)

type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *MockAcknowledger) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		handlerErr error
		setup      func(*MockAcknowledger)
	}{
		{
			name:  "acked on success",
			setup: func(m *MockAcknowledger) { m.On("Ack", false).Return(nil).Once() },
		},
		{
			name:       "requeued on transient error",
			handlerErr: errors.New("smtp unavailable"),
			setup:      func(m *MockAcknowledger) { m.On("Nack", false, true).Return(nil).Once() },
		},
		{
			name:       "dropped on permanent error",
			handlerErr: fmt.Errorf("bad payload: %w", ErrDrop),
			setup:      func(m *MockAcknowledger) { m.On("Nack", false, false).Return(nil).Once() },
		},
		{
			name:  "ack failure is only logged",
			setup: func(m *MockAcknowledger) { m.On("Ack", false).Return(errors.New("channel closed")).Once() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := new(MockAcknowledger)
			tt.setup(ack)

			var got []byte
			handle(context.Background(), ack, []byte(`{"booking_id":1}`), sl.NewDiscardLogger(), func(_ context.Context, body []byte) error {
				got = body
				return tt.handlerErr
			})

			assert.Equal(t, `{"booking_id":1}`, string(got))
			ack.AssertExpectations(t)
		})
	}
}

// deliveryAcks считает подтверждения на уровне amqp.Acknowledger.
type deliveryAcks struct {
	mu       sync.Mutex
	acked    []uint64
	requeued []uint64
}

func (a *deliveryAcks) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *deliveryAcks) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if requeue {
		a.requeued = append(a.requeued, tag)
	}
	return nil
}

func (a *deliveryAcks) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestDispatch_WaitsForInFlightHandlers(t *testing.T) {
	tests := []struct {
		name string
		stop func(cancel context.CancelFunc, delivery chan amqp.Delivery)
	}{
		{
			name: "context canceled",
			stop: func(cancel context.CancelFunc, _ chan amqp.Delivery) { cancel() },
		},
		{
			name: "delivery channel closed",
			stop: func(_ context.CancelFunc, delivery chan amqp.Delivery) { close(delivery) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			acks := &deliveryAcks{}
			delivery := make(chan amqp.Delivery, 1)
			delivery <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 7, Body: []byte(`{"booking_id":7}`)}

			started := make(chan struct{})
			release := make(chan struct{})
			var finished atomic.Bool
			var handlerCtxErr error

			done := make(chan struct{})
			go func() {
				defer close(done)
				dispatch(ctx, delivery, sl.NewDiscardLogger(), func(hctx context.Context, _ []byte) error {
					close(started)
					<-release
					handlerCtxErr = hctx.Err()
					finished.Store(true)
					return nil
				})
			}()

			<-started
			tt.stop(cancel, delivery)

			select {
			case <-done:
				t.Fatal("dispatch returned before the in-flight handler finished")
			case <-time.After(50 * time.Millisecond):
			}

			close(release)
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("dispatch did not return after the handler finished")
			}

			require.True(t, finished.Load())
			assert.NoError(t, handlerCtxErr, "shutdown must not cancel a started handler")
			assert.Equal(t, []uint64{7}, acks.acked)
		})
	}
}
