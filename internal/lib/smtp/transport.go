package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/travel-booking/internal/config"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
)

const (
	defaultSessionTimeout = 30 * time.Second
	// implicitTLSPort порт SMTPS, на котором сервер ждет TLS сразу после подключения.
	implicitTLSPort = "465"
)

// Transport реализует SMTP транспорт для отправки писем.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

var _ TransportInterface = (*Transport)(nil)

// smtpClientWrapper обертка для *smtp.Client, реализующая интерфейс Client.
type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error {
	return w.client.Mail(from)
}

func (w *smtpClientWrapper) Rcpt(to string) error {
	return w.client.Rcpt(to)
}

func (w *smtpClientWrapper) Data() (io.WriteCloser, error) {
	return w.client.Data()
}

func (w *smtpClientWrapper) Quit() error {
	return w.client.Quit()
}

func (w *smtpClientWrapper) Close() error {
	return w.client.Close()
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect устанавливает соединение с SMTP сервером и проходит аутентификацию PLAIN.
// На порту 465 (или при ImplicitTLS) TLS поднимается сразу при подключении,
// иначе через STARTTLS. Вся сессия, включая отправку письма, ограничена
// дедлайном ctx или таймаутом из конфига, смотря что наступит раньше.
func (t *Transport) Connect(ctx context.Context) (Client, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	deadline := time.Now().Add(t.sessionTimeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	implicitTLS := t.implicitTLS()

	conn, err := t.dial(dialCtx, addr, tlsConfig, implicitTLS)
	if err != nil {
		t.log.Error("failed to dial SMTP server", slog.Bool("implicit_tls", implicitTLS), sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if err = conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set SMTP deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if !implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			t.log.Error("SMTP server does not support STARTTLS")
			t.closeClient(client)
			return nil, fmt.Errorf("smtp server does not support STARTTLS")
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			t.log.Error("failed to start TLS", sl.Err(err))
			t.closeClient(client)
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.log.Error("smtp auth failed", sl.Err(err))
		t.closeClient(client)
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return &smtpClientWrapper{client: client}, nil
}

func (t *Transport) dial(ctx context.Context, addr string, tlsConfig *tls.Config, implicitTLS bool) (net.Conn, error) {
	netDialer := &net.Dialer{}
	if implicitTLS {
		d := &tls.Dialer{NetDialer: netDialer, Config: tlsConfig}
		return d.DialContext(ctx, "tcp", addr)
	}
	return netDialer.DialContext(ctx, "tcp", addr)
}

func (t *Transport) closeClient(client *smtp.Client) {
	if err := client.Close(); err != nil {
		t.log.Error("failed to close client", sl.Err(err))
	}
}

func (t *Transport) implicitTLS() bool {
	return t.cfg.ImplicitTLS || t.cfg.SMTPPort == implicitTLSPort
}

func (t *Transport) sessionTimeout() time.Duration {
	if t.cfg.Timeout > 0 {
		return t.cfg.Timeout
	}
	return defaultSessionTimeout
}

// GetSMTPUser возвращает имя пользователя SMTP.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}
