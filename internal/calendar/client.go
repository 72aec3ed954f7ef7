package calendar

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

var (
	// ErrEventGone means the external event was already deleted.
	ErrEventGone = errors.New("calendar: event no longer exists")
	// ErrNoCredential means the owner cannot be acted for.
	ErrNoCredential = errors.New("calendar: no access credential")
)

// EventsAPI is the slice of the external calendar the adapter needs.
type EventsAPI interface {
	Insert(ctx context.Context, calendarID string, ev Event) (EventRef, error)
	// Patch updates title and description; start/end only when withTiming.
	Patch(ctx context.Context, calendarID, eventID string, ev Event, withTiming bool) error
	Delete(ctx context.Context, calendarID, eventID string) error
}

// ClientFactory binds an EventsAPI to one owner's credential.
type ClientFactory interface {
	ForOwner(ctx context.Context, owner *models.User) (EventsAPI, error)
}

// OwnerSource returns the administrator whose calendar mirrors bookings,
// or nil when nobody has sync enabled.
type OwnerSource interface {
	CalendarOwner(ctx context.Context) (*models.User, error)
}
