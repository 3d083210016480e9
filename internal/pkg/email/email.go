package email

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	gomail "gopkg.in/gomail.v2"
)

const (
	maxRetries  = 3
	dialTimeout = 30 * time.Second
)

// Sender dispatches notification emails produced by the scheduler.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSender creates an SMTP sender with retry and backoff.
func NewSender(cfg config.SMTPConfig) Sender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &smtpSender{cfg: cfg, dialer: dialer}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		done := make(chan error, 1)
		go func() {
			done <- s.dialer.DialAndSend(m)
		}()

		select {
		case err := <-done:
			if err == nil {
				return nil
			}
			lastErr = err
		case <-time.After(dialTimeout):
			lastErr = fmt.Errorf("smtp send timed out after %s", dialTimeout)
		}

		backoff := time.Duration(1<<uint(attempt-1)) * time.Second
		slog.Warn("Email send failed, retrying", "to", to, "attempt", attempt, "backoff", backoff, "error", lastErr)
		time.Sleep(backoff)
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
