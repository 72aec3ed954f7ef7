package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// GoogleClientFactory holds the OAuth client shared by every owner. It is
// built once at start-up and passed to the adapter.
type GoogleClientFactory struct {
	oauth *oauth2.Config
	opts  []option.ClientOption
}

func NewGoogleClientFactory(clientID, clientSecret string, opts ...option.ClientOption) *GoogleClientFactory {
	return &GoogleClientFactory{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		},
		opts: opts,
	}
}

func (f *GoogleClientFactory) ForOwner(ctx context.Context, owner *models.User) (EventsAPI, error) {
	if f == nil || f.oauth.ClientID == "" || owner == nil || owner.CalendarRefreshToken == "" {
		return nil, ErrNoCredential
	}

	ts := f.oauth.TokenSource(context.WithoutCancel(ctx), &oauth2.Token{
		RefreshToken: owner.CalendarRefreshToken,
	})

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, f.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: new service: %w", err)
	}
	return &googleEvents{svc: svc}, nil
}

type googleEvents struct {
	svc *gcal.Service
}

func (g *googleEvents) Insert(ctx context.Context, calendarID string, ev Event) (EventRef, error) {
	created, err := g.svc.Events.Insert(calendarID, toGoogle(ev, true)).Context(ctx).Do()
	if err != nil {
		return EventRef{}, translate(err)
	}
	return EventRef{ID: created.Id, URL: created.HtmlLink}, nil
}

func (g *googleEvents) Patch(ctx context.Context, calendarID, eventID string, ev Event, withTiming bool) error {
	_, err := g.svc.Events.Patch(calendarID, eventID, toGoogle(ev, withTiming)).Context(ctx).Do()
	return translate(err)
}

func (g *googleEvents) Delete(ctx context.Context, calendarID, eventID string) error {
	return translate(g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do())
}

func toGoogle(ev Event, withTiming bool) *gcal.Event {
	out := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
	}
	if !withTiming {
		return out
	}

	out.Start = &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: ev.TimeZone}
	out.End = &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: ev.TimeZone}

	if ev.AttendeeEmail != "" {
		out.Attendees = []*gcal.EventAttendee{{Email: ev.AttendeeEmail}}
	}

	overrides := make([]*gcal.EventReminder, 0, len(ev.ReminderMinutes))
	for _, m := range ev.ReminderMinutes {
		overrides = append(overrides, &gcal.EventReminder{Method: "popup", Minutes: m})
	}
	out.Reminders = &gcal.EventReminders{
		UseDefault:      false,
		Overrides:       overrides,
		ForceSendFields: []string{"UseDefault"},
	}
	return out
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return fmt.Errorf("%w: %v", ErrEventGone, err)
	}
	return err
}

var _ ClientFactory = (*GoogleClientFactory)(nil)
