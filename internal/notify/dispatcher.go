package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/validators"
)

var (
	ErrNoRecipient = errors.New("notify: no deliverable address")
	ErrOptedOut    = errors.New("notify: recipient opted out of email reminders")
)

type Event struct {
	Kind           Kind
	Appointment    *models.Appointment
	PreviousStatus string
}

// Result reports each channel independently. A channel that was not
// attempted has Attempted=false and a nil error.
type Result struct {
	InApp ChannelResult
	Email ChannelResult
}

type ChannelResult struct {
	Attempted bool
	Err       error
	// DeliveryID is the notification id (in-app) or transport id (email).
	DeliveryID string
}

func (r ChannelResult) Delivered() bool {
	return r.Attempted && r.Err == nil
}

type Sender struct {
	Address string
	Name    string
}

type Dispatcher struct {
	store    Store
	mailer   EmailSender
	renderer Renderer
	from     Sender
	support  string
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

type DispatcherConfig struct {
	From           Sender
	SupportAddress string
}

func NewDispatcher(
	store Store,
	mailer EmailSender,
	renderer Renderer,
	cfg DispatcherConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		mailer:   mailer,
		renderer: renderer,
		from:     cfg.From,
		support:  cfg.SupportAddress,
		metrics:  m,
		log:      log.With().Str("component", "notify").Logger(),
		now:      time.Now,
	}
}

// Dispatch delivers ev on every channel its kind allows. Channels are
// independent: a failure on one is logged and reported but never stops the
// other. Calling Dispatch twice delivers twice.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) Result {
	var res Result

	policy, ok := policies[ev.Kind]
	if !ok || ev.Appointment == nil {
		d.log.Warn().Str("kind", string(ev.Kind)).Msg("dispatch skipped: unknown kind or empty appointment")
		return res
	}
	ap := ev.Appointment

	if policy.inApp && !ap.IsGuest() {
		res.InApp.Attempted = true
		res.InApp.DeliveryID, res.InApp.Err = d.createInApp(ctx, ev)
		d.metrics.Delivery("in_app", string(ev.Kind), res.InApp.Err)
		if res.InApp.Err != nil {
			d.log.Error().Err(res.InApp.Err).
				Str("appointment_id", ap.ID).
				Str("kind", string(ev.Kind)).
				Msg("in-app notification failed")
		}
	}

	if policy.email {
		if err := emailAllowed(ap, policy); err != nil {
			d.log.Debug().Err(err).
				Str("appointment_id", ap.ID).
				Str("kind", string(ev.Kind)).
				Msg("email skipped")
			return res
		}
		res.Email.Attempted = true
		res.Email.DeliveryID, res.Email.Err = d.sendEmail(ctx, ev.Kind, ap.UserEmail, ap.UserName, templateDataFor(ev.Kind, ap, ev.PreviousStatus))
		d.metrics.Delivery("email", string(ev.Kind), res.Email.Err)
		if res.Email.Err != nil {
			d.log.Error().Err(res.Email.Err).
				Str("appointment_id", ap.ID).
				Str("kind", string(ev.Kind)).
				Msg("email notification failed")
		}
	}

	return res
}

// AlertSupport emails the internal support inbox. It is a no-op when no
// support address is configured.
func (d *Dispatcher) AlertSupport(ctx context.Context, ap *models.Appointment, reason string) error {
	if d.support == "" {
		return nil
	}
	data := templateDataFor(KindSupportAlert, ap, "")
	data.Reason = reason

	_, err := d.sendEmail(ctx, KindSupportAlert, d.support, "Support", data)
	d.metrics.Delivery("support", string(KindSupportAlert), err)
	if err != nil {
		d.log.Error().Err(err).Str("appointment_id", ap.ID).Msg("support alert failed")
	}
	return err
}

func emailAllowed(ap *models.Appointment, policy channelPolicy) error {
	if !validators.IsEmailSyntaxValid(ap.UserEmail) {
		return ErrNoRecipient
	}
	if policy.requiresOptIn && !ap.EmailReminders {
		return ErrOptedOut
	}
	return nil
}

func (d *Dispatcher) createInApp(ctx context.Context, ev Event) (string, error) {
	c := contentFor(ev)
	ap := ev.Appointment

	n := &models.Notification{
		ID:      uuid.NewString(),
		UserID:  ap.UserID,
		Title:   c.title,
		Message: c.message,
		Type:    c.typ,
		Metadata: models.NotificationMetadata{
			AppointmentID:  ap.ID,
			Kind:           string(ev.Kind),
			Service:        ap.ServiceLabel(),
			Date:           ap.Date,
			TimeSlot:       ap.TimeSlot,
			PreviousStatus: ev.PreviousStatus,
			CurrentStatus:  ap.Status,
		},
		CreatedAt: d.now(),
	}

	if err := d.store.CreateNotification(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, kind Kind, to, toName string, data TemplateData) (string, error) {
	rendered, err := d.renderer.Render(kind, data)
	if err != nil {
		return "", err
	}
	return d.mailer.Send(ctx, EmailMessage{
		From:     d.from.Address,
		FromName: d.from.Name,
		To:       to,
		ToName:   toName,
		Subject:  rendered.Subject,
		HTML:     rendered.HTML,
	})
}
