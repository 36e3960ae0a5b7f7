// Package sender отправляет письма-подтверждения бронирований.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/travel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/travel-booking/internal/models"
)

// Service отправляет письма через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendBookingConfirmation разбирает models.BookingNotification из body и
// отправляет письмо гостю. Поврежденное сообщение оборачивает rabbitmq.ErrDrop.
// ctx ограничивает SMTP-сессию.
func (s *Service) SendBookingConfirmation(ctx context.Context, body []byte) error {
	var message models.BookingNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%w: error unmarshalling message: %w", rabbitmq.ErrDrop, err)
	}
	if message.Email == "" {
		s.log.Error("booking notification without recipient", slog.Int64("booking_id", message.BookingID))
		return fmt.Errorf("%w: empty recipient", rabbitmq.ErrDrop)
	}

	subject := fmt.Sprintf("Подтверждение бронирования №%d", message.BookingID)
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\n"+
		"Ваше бронирование в отеле %s (%s) подтверждено.\n"+
		"Заезд: %s\nВыезд: %s\nНомеров: %d\nИтого к оплате: %.2f\n\n"+
		"Спасибо, что выбрали нас!",
		message.Name, message.HotelName, message.Location,
		message.CheckIn, message.CheckOut, message.Rooms, message.TotalPrice)

	return s.sendEmail(ctx, []string{message.Email}, subject, bodyText)
}

func (s *Service) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
