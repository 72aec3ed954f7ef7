package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// EmailSender delivers one message and returns the transport's delivery id.
// Implementations can be swapped (SES, SendGrid, SMTP) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

type EmailMessage struct {
	From     string
	FromName string
	To       string
	ToName   string
	Subject  string
	HTML     string
}

// StubEmailSender logs instead of sending.
type StubEmailSender struct {
	log zerolog.Logger
}

func NewStubEmailSender(log zerolog.Logger) *StubEmailSender {
	return &StubEmailSender{log: log}
}

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	id := "stub-" + uuid.NewString()
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("delivery_id", id).
		Msg("stub email sender: would send email")
	return id, nil
}

// RateLimitedSender throttles outbound mail so a reminder batch cannot trip
// the provider's sending quota.
type RateLimitedSender struct {
	next    EmailSender
	limiter *rate.Limiter
}

func NewRateLimitedSender(next EmailSender, perSecond float64, burst int) *RateLimitedSender {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimitedSender{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (s *RateLimitedSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("notify: rate limit wait: %w", err)
	}
	return s.next.Send(ctx, msg)
}

var (
	_ EmailSender = (*StubEmailSender)(nil)
	_ EmailSender = (*RateLimitedSender)(nil)
)
