package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
)

type RescheduleAppointmentInput struct {
	AppointmentID string
	ActorID       string
	ActorRole     string
	Date          string
	TimeSlot      string
}

type RescheduleAppointment struct {
	repo  domain.Repository
	rules BookingRules
	fx    SideEffects
}

func NewRescheduleAppointment(
	repo domain.Repository,
	rules BookingRules,
	fx SideEffects,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		rules: rules,
		fx:    fx,
	}
}

// Execute moves a pending appointment. No creation notification is sent;
// the calendar event, if any, is moved.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	if !canActOn(ap, in.ActorID, in.ActorRole) {
		return nil, httperr.ErrBusiness("forbidden")
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	day, err := domain.ParseDate(in.Date, uc.rules.location())
	if err != nil {
		return nil, err
	}
	if day.Before(timezone.StartOfDay(uc.rules.now())) {
		return nil, httperr.ErrBusiness("date_in_past")
	}
	slot, err := uc.rules.Policy.Slot(in.TimeSlot)
	if err != nil {
		return nil, err
	}

	if err := checkBookable(ctx, uc.repo, uc.rules.Policy, day, slot, ap.ID); err != nil {
		countRejection(uc.fx.Metrics, err)
		return nil, err
	}

	from := ap.Date + " " + ap.TimeSlot
	if err := domain.Reschedule(ap, domain.FormatDate(day), slot); err != nil {
		return nil, err
	}

	if err := uc.repo.RescheduleWithinCapacity(ctx, ap, uc.rules.guard()); err != nil {
		countRejection(uc.fx.Metrics, err)
		return nil, notFound(err, "appointment_not_found")
	}

	uc.fx.syncCalendar(ctx, uc.repo, ap, uc.calendarReschedule)
	uc.fx.recordAudit(in.ActorID, "appointment_rescheduled", ap, map[string]string{
		"from": from,
		"to":   ap.Date + " " + ap.TimeSlot,
	})

	return ap, nil
}

func (uc *RescheduleAppointment) calendarReschedule(ctx context.Context, ap *models.Appointment) error {
	return uc.fx.Calendar.Reschedule(ctx, ap)
}
