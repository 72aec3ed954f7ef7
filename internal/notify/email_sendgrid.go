package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via the SendGrid v3 API.
type SendGridSender struct {
	client sendgridAPI
}

func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	from := mail.NewEmail(msg.FromName, msg.From)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, "", msg.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

var _ EmailSender = (*SendGridSender)(nil)
