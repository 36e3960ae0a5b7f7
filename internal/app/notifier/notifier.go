// Package notifier собирает сервис, который отправляет письма-подтверждения
// бронирований из очереди RabbitMQ.
package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/travel-booking/internal/config"
	"github.com/magabrotheeeer/travel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/travel-booking/internal/services/sender"
)

// App читает события подтверждения бронирований и рассылает письма.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к RabbitMQ, объявляет очереди бронирований и собирает
// отправителя писем поверх SMTP транспорта.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQ.URL == "" {
		return nil, errors.New("notifier.New: rabbitmq url is not set")
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.BookingQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewService(logger, transport),
		logger:        logger,
	}, nil
}

// Run потребляет очередь подтверждений до отмены ctx. Перед закрытием канала
// дожидается писем, отправка которых уже началась.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.BookingConfirmationQueue, a.logger, a.senderService.SendBookingConfirmation)
	if err != nil {
		a.logger.Error("failed to start booking_confirmation_queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")
	<-done
	a.logger.Info("in-flight messages handled")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
