package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	type payload struct {
		BookingID int64  `json:"booking_id"`
		Email     string `json:"email"`
	}

	tests := []struct {
		name       string
		message    any
		publishErr error
		wantErr    bool
		callsMock  bool
	}{
		{
			name:      "success",
			message:   payload{BookingID: 7, Email: "manasa@trip.com"},
			callsMock: true,
		},
		{
			name:       "broker error",
			message:    payload{BookingID: 7},
			publishErr: errors.New("channel closed"),
			wantErr:    true,
			callsMock:  true,
		},
		{
			name:    "marshal error",
			message: struct{ Ch chan int }{Ch: make(chan int)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := new(MockChannel)
			var published amqp.Publishing
			if tt.callsMock {
				ch.On("Publish", BookingsExchange, BookingConfirmedKey, false, false, mock.AnythingOfType("amqp.Publishing")).
					Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
					Return(tt.publishErr).Once()
			}

			err := NewPublisher(ch).Publish(context.Background(), BookingConfirmedKey, tt.message)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "rabbitmq.Publish")
			} else {
				require.NoError(t, err)
				assert.Equal(t, "application/json", published.ContentType)
				assert.Equal(t, amqp.Persistent, published.DeliveryMode)
				assert.NotEmpty(t, published.MessageId)

				var got payload
				require.NoError(t, json.Unmarshal(published.Body, &got))
				assert.Equal(t, tt.message, got)
			}
			ch.AssertExpectations(t)
		})
	}
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := new(MockChannel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPublisher(ch).Publish(ctx, BookingConfirmedKey, map[string]int{"id": 1})
	assert.ErrorIs(t, err, context.Canceled)
	ch.AssertNotCalled(t, "Publish")
}

func TestBookingQueues(t *testing.T) {
	queues := BookingQueues()
	require.Len(t, queues, 1)
	assert.Equal(t, "booking_confirmation_queue", queues[0].QueueName)
	assert.Equal(t, BookingConfirmedKey, queues[0].RoutingKey)
}
