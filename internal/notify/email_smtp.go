package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender relays through a plain SMTP server (Mailpit locally).
type SMTPSender struct {
	dialer smtpDialer
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	domain := "localhost"
	if at := strings.LastIndex(msg.From, "@"); at >= 0 {
		domain = msg.From[at+1:]
	}
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From, msg.FromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("notify: smtp send failed: %w", err)
	}
	return id, nil
}

var _ EmailSender = (*SMTPSender)(nil)
