package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
)

// CalendarSync mirrors an appointment externally. Implementations record the
// outcome on the appointment's calendar fields.
type CalendarSync interface {
	Create(ctx context.Context, ap *models.Appointment) error
	Update(ctx context.Context, ap *models.Appointment) error
	Reschedule(ctx context.Context, ap *models.Appointment) error
}

type Notifier interface {
	Dispatch(ctx context.Context, ev notify.Event) notify.Result
	AlertSupport(ctx context.Context, ap *models.Appointment, reason string) error
}

// BookingRules are the business settings shared by every use case.
type BookingRules struct {
	Policy            domain.CapacityPolicy
	Location          *time.Location
	VerifyEmailDomain bool
	Clock             timezone.Clock
}

func (r BookingRules) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now().In(r.location())
}

func (r BookingRules) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.UTC
}

func (r BookingRules) guard() domain.SlotGuard {
	return domain.SlotGuard{Capacity: r.Policy.Capacity}
}

// SideEffects are the best-effort actions that follow a committed change.
// Any field may be nil.
type SideEffects struct {
	Calendar CalendarSync
	Notifier Notifier
	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Log      zerolog.Logger
}

// ===============================
// Helpers
// ===============================

// detach keeps side effects running after the request that triggered them
// has returned.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (fx SideEffects) sendNotification(ctx context.Context, kind notify.Kind, ap *models.Appointment, previous string) {
	if fx.Notifier == nil {
		return
	}
	fx.Notifier.Dispatch(detach(ctx), notify.Event{
		Kind:           kind,
		Appointment:    ap,
		PreviousStatus: previous,
	})
}

// syncCalendar runs op and persists whatever calendar state it left on ap.
// Failures are logged; the business change already committed stands.
func (fx SideEffects) syncCalendar(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	op func(context.Context, *models.Appointment) error,
) {
	if fx.Calendar == nil {
		return
	}
	ctx = detach(ctx)

	before := calendarState{ap.CalendarEventID, ap.CalendarEventURL, ap.CalendarSyncError, ap.LastSyncAttempt}
	if err := op(ctx, ap); err != nil {
		fx.Log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("calendar sync failed")
	}

	after := calendarState{ap.CalendarEventID, ap.CalendarEventURL, ap.CalendarSyncError, ap.LastSyncAttempt}
	if after == before {
		return
	}
	if err := repo.UpdateCalendarState(ctx, ap); err != nil {
		fx.Log.Error().Err(err).Str("appointment_id", ap.ID).Msg("persist calendar state failed")
	}
}

type calendarState struct {
	id, url, syncErr string
	attempt          *time.Time
}

func (fx SideEffects) recordAudit(actorID, action string, ap *models.Appointment, meta any) {
	fx.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: meta,
	})
}
