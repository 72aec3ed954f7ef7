package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const orphanedNote = "calendar event not removed: no calendar owner available"

// Adapter mirrors appointments onto the owner's external calendar.
//
// Every method mutates the appointment's calendar fields (event id, url,
// last sync attempt, sync error) and returns the sync error, if any. The
// caller persists those fields and never lets the error fail the business
// operation. When no owner or credential is available the methods are no-ops.
type Adapter struct {
	owners   OwnerSource
	clients  ClientFactory
	loc      *time.Location
	duration time.Duration
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

type AdapterConfig struct {
	Location      *time.Location
	EventDuration time.Duration
}

func NewAdapter(owners OwnerSource, clients ClientFactory, cfg AdapterConfig, m *metrics.Metrics, log zerolog.Logger) *Adapter {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	log = log.With().Str("component", "calendar").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "calendar",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrEventGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})

	return &Adapter{
		owners:   owners,
		clients:  clients,
		loc:      loc,
		duration: cfg.EventDuration,
		breaker:  breaker,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Create inserts an event for ap and stores its id and url.
func (a *Adapter) Create(ctx context.Context, ap *models.Appointment) error {
	api, calendarID, ok, err := a.resolve(ctx)
	if !ok {
		return a.skip("create", ap, err)
	}
	return a.finish("create", ap, a.create(ctx, api, calendarID, ap))
}

// Update mirrors the appointment's current status. Cancelled and rejected
// appointments lose their event; appointments without one get it created;
// everything else has title and description patched.
//
// A failed delete is not retried. The event id stays on the appointment next
// to calendar_sync_error so the orphaned event can be removed by hand.
func (a *Adapter) Update(ctx context.Context, ap *models.Appointment) error {
	negative := domain.Status(ap.Status).TerminalNegative()
	if negative && ap.CalendarEventID == "" {
		return nil
	}

	api, calendarID, ok, err := a.resolve(ctx)
	if !ok {
		if negative && err == nil {
			ap.CalendarEventID = ""
			ap.CalendarEventURL = ""
			a.log.Warn().Str("appointment_id", ap.ID).Msg(orphanedNote)
			return a.finish("delete", ap, errors.New(orphanedNote))
		}
		return a.skip("update", ap, err)
	}

	if negative {
		err := a.call(func() error { return api.Delete(ctx, calendarID, ap.CalendarEventID) })
		if err == nil || errors.Is(err, ErrEventGone) {
			ap.CalendarEventID = ""
			ap.CalendarEventURL = ""
			return a.finish("delete", ap, nil)
		}
		return a.finish("delete", ap, err)
	}

	if ap.CalendarEventID == "" {
		return a.finish("create", ap, a.create(ctx, api, calendarID, ap))
	}

	ev, err := BuildEvent(ap, a.loc, a.duration)
	if err != nil {
		return a.finish("update", ap, err)
	}
	err = a.call(func() error { return api.Patch(ctx, calendarID, ap.CalendarEventID, ev, false) })
	if errors.Is(err, ErrEventGone) {
		ap.CalendarEventID = ""
		ap.CalendarEventURL = ""
		return a.finish("create", ap, a.create(ctx, api, calendarID, ap))
	}
	return a.finish("update", ap, err)
}

// Reschedule moves the event to the appointment's new date and slot.
func (a *Adapter) Reschedule(ctx context.Context, ap *models.Appointment) error {
	api, calendarID, ok, err := a.resolve(ctx)
	if !ok {
		return a.skip("reschedule", ap, err)
	}
	if ap.CalendarEventID == "" {
		return a.finish("create", ap, a.create(ctx, api, calendarID, ap))
	}

	ev, err := BuildEvent(ap, a.loc, a.duration)
	if err != nil {
		return a.finish("reschedule", ap, err)
	}
	err = a.call(func() error { return api.Patch(ctx, calendarID, ap.CalendarEventID, ev, true) })
	if errors.Is(err, ErrEventGone) {
		ap.CalendarEventID = ""
		ap.CalendarEventURL = ""
		return a.finish("create", ap, a.create(ctx, api, calendarID, ap))
	}
	return a.finish("reschedule", ap, err)
}

func (a *Adapter) create(ctx context.Context, api EventsAPI, calendarID string, ap *models.Appointment) error {
	ev, err := BuildEvent(ap, a.loc, a.duration)
	if err != nil {
		return err
	}

	var ref EventRef
	err = a.call(func() error {
		var ierr error
		ref, ierr = api.Insert(ctx, calendarID, ev)
		return ierr
	})
	if err != nil {
		return err
	}
	ap.CalendarEventID = ref.ID
	ap.CalendarEventURL = ref.URL
	return nil
}

// resolve returns ok=false with a nil error when syncing is simply not
// configured, and ok=false with an error when the owner lookup failed.
func (a *Adapter) resolve(ctx context.Context) (EventsAPI, string, bool, error) {
	if a == nil || a.owners == nil || a.clients == nil {
		return nil, "", false, nil
	}

	owner, err := a.owners.CalendarOwner(ctx)
	if err != nil {
		return nil, "", false, fmt.Errorf("calendar: owner lookup: %w", err)
	}
	if owner == nil || !owner.CalendarSyncEnabled {
		return nil, "", false, nil
	}

	api, err := a.clients.ForOwner(ctx, owner)
	if errors.Is(err, ErrNoCredential) {
		a.log.Debug().Str("owner_id", owner.ID).Msg("calendar owner has no credential, skipping")
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}

	calendarID := owner.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return api, calendarID, true, nil
}

func (a *Adapter) call(fn func() error) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// skip records only real failures; an unconfigured calendar leaves the
// appointment untouched.
func (a *Adapter) skip(op string, ap *models.Appointment, err error) error {
	if err == nil {
		return nil
	}
	return a.finish(op, ap, err)
}

func (a *Adapter) finish(op string, ap *models.Appointment, err error) error {
	if a == nil {
		return err
	}
	now := a.now()
	ap.LastSyncAttempt = &now
	if err != nil {
		ap.CalendarSyncError = err.Error()
		a.log.Error().Err(err).Str("op", op).Str("appointment_id", ap.ID).Msg("calendar sync failed")
	} else {
		ap.CalendarSyncError = ""
	}
	a.metrics.Calendar(op, err)
	return err
}
