// Package email sends transactional mail over SMTP.
package email

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/builderhome/backend/internal/logger"
)

// Sender delivers plain-text mail through a configured SMTP account.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender creates a Sender for the given SMTP endpoint and sender address.
func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a single message. Delivery failure is returned to the caller;
// forgot-password treats it as a reason to roll back the reset state.
func (s *Sender) Send(ctx context.Context, to, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", message)

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.Log.Errorw("email send failed", "to", to, "subject", subject, "error", err)
		return err
	}

	logger.Log.Infow("email sent", "to", to, "subject", subject)
	return nil
}
