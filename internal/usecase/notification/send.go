package notification

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type AppointmentReader interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, ev notify.Event) notify.Result
}

// SendNotification fires one notification kind for an existing appointment
// outside the normal lifecycle. It backs the operator debug surface.
type SendNotification struct {
	appointments AppointmentReader
	dispatcher   Dispatcher
}

func NewSendNotification(appointments AppointmentReader, dispatcher Dispatcher) *SendNotification {
	return &SendNotification{appointments: appointments, dispatcher: dispatcher}
}

type SendResult struct {
	Kind          string `json:"type"`
	AppointmentID string `json:"appointment_id"`
	InApp         string `json:"in_app"`
	Email         string `json:"email"`
}

func (uc *SendNotification) Execute(ctx context.Context, kind, appointmentID string) (*SendResult, error) {
	k, ok := notify.ParseKind(kind)
	if !ok {
		return nil, httperr.ErrBusiness("unknown_notification")
	}

	ap, err := uc.appointments.GetAppointment(ctx, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	res := uc.dispatcher.Dispatch(ctx, notify.Event{Kind: k, Appointment: ap})
	return &SendResult{
		Kind:          string(k),
		AppointmentID: ap.ID,
		InApp:         channelOutcome(res.InApp),
		Email:         channelOutcome(res.Email),
	}, nil
}

func channelOutcome(r notify.ChannelResult) string {
	switch {
	case !r.Attempted:
		return "skipped"
	case r.Err != nil:
		return "failed: " + r.Err.Error()
	default:
		return "sent"
	}
}
