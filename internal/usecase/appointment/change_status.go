package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type ChangeStatusInput struct {
	AppointmentID string
	ActorID       string
	ActorRole     string
	Status        string
	// Reason is forwarded to the support alert on cancellation.
	Reason string
}

type ChangeStatus struct {
	repo  domain.Repository
	rules BookingRules
	fx    SideEffects
}

func NewChangeStatus(
	repo domain.Repository,
	rules BookingRules,
	fx SideEffects,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		rules: rules,
		fx:    fx,
	}
}

// Execute applies one transition. Requesting the current status is a no-op:
// nothing is written and no side effect runs. Clients may only cancel their
// own appointments.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	if !canActOn(ap, in.ActorID, in.ActorRole) {
		return nil, httperr.ErrBusiness("forbidden")
	}
	if in.ActorRole != models.RoleAdmin && to != domain.StatusCancelled {
		return nil, httperr.ErrBusiness("forbidden")
	}

	previous := ap.Status
	changed, err := domain.ChangeStatus(ap, to, in.ActorRole, uc.rules.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	// --------------------------------------------------
	// Side effects (best effort, independent)
	// --------------------------------------------------
	uc.fx.sendNotification(ctx, notify.KindStatusChanged, ap, previous)
	uc.fx.syncCalendar(ctx, uc.repo, ap, uc.calendarUpdate)

	if to == domain.StatusCancelled && uc.fx.Notifier != nil {
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = "Cancelled by " + ap.CancelledBy
		}
		uc.fx.Notifier.AlertSupport(detach(ctx), ap, reason)
	}

	uc.fx.recordAudit(in.ActorID, "appointment_"+string(to), ap, map[string]string{
		"from": previous,
		"to":   ap.Status,
	})

	return ap, nil
}

func (uc *ChangeStatus) calendarUpdate(ctx context.Context, ap *models.Appointment) error {
	return uc.fx.Calendar.Update(ctx, ap)
}
