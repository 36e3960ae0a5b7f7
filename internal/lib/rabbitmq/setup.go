package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// BookingsExchange — direct exchange событий бронирования.
	BookingsExchange = "bookings"
	// BookingConfirmationQueue — очередь писем-подтверждений.
	BookingConfirmationQueue = "booking_confirmation_queue"
	// BookingConfirmedKey — ключ маршрутизации подтвержденного бронирования.
	BookingConfirmedKey = "booking.confirmed"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BookingQueues возвращает очереди, которые слушает сервис уведомлений.
func BookingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BookingConfirmationQueue, RoutingKey: BookingConfirmedKey},
	}
}

// SetupChannel открывает канал, объявляет exchange bookings и привязывает к нему queues.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: set qos: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		BookingsExchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: declare %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, BookingsExchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: bind %s: %w", op, q.QueueName, err)
		}
	}
	return ch, nil
}
