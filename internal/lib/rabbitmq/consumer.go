package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
)

// ErrDrop помечает сообщение, которое не имеет смысла обрабатывать повторно
// (например, поврежденный JSON). Такое сообщение отклоняется без возврата в очередь.
var ErrDrop = errors.New("drop message")

// maxInFlight ограничивает число одновременно обрабатываемых сообщений.
const maxInFlight = 10

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumeMessages запускает потребителя очереди queueName. Успешно обработанное
// сообщение подтверждается, при ошибке handler оно возвращается в очередь,
// если только ошибка не оборачивает ErrDrop.
// Чтение прекращается при отмене ctx или закрытии канала. Возвращаемый канал
// закрывается, когда все уже начатые обработчики завершились: канал AMQP
// можно закрывать только после этого. Отмена ctx не прерывает начатые
// обработчики, их время ограничивает сам handler.
func ConsumeMessages(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumeMessages"
	delivery, err := ch.Consume(
		queueName,
		"",
		false, // auto-ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatch(ctx, delivery, log.With(slog.String("queue", queueName)), handler)
	}()
	return done, nil
}

// Acknowledger подтверждает или отклоняет доставку.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// dispatch возвращается только после завершения всех запущенных обработчиков.
func dispatch(ctx context.Context, delivery <-chan amqp.Delivery, log *slog.Logger, handler Handler) {
	var wg sync.WaitGroup
	defer wg.Wait()

	handlerCtx := context.WithoutCancel(ctx)
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to requeue message", sl.Err(err))
				}
				return
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(handlerCtx, &d, d.Body, log, handler)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func handle(ctx context.Context, ack Acknowledger, body []byte, log *slog.Logger, handler Handler) {
	if err := handler(ctx, body); err != nil {
		requeue := !errors.Is(err, ErrDrop)
		log.Warn("message handling failed", sl.Err(err), slog.Bool("requeue", requeue))
		if nackErr := ack.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
