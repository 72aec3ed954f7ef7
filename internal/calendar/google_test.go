package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(&googleapi.Error{Code: http.StatusNotFound}), ErrEventGone)
	assert.ErrorIs(t, translate(&googleapi.Error{Code: http.StatusGone}), ErrEventGone)

	other := &googleapi.Error{Code: http.StatusForbidden}
	assert.False(t, errors.Is(translate(other), ErrEventGone))
}

func TestToGoogle_TimingOnlyWhenRequested(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ev := Event{
		Summary:         "[PENDING] Wash - Jane",
		Start:           start,
		End:             start.Add(2 * time.Hour),
		TimeZone:        "UTC",
		AttendeeEmail:   "jane@example.com",
		ReminderMinutes: ReminderOffsets,
	}

	bare := toGoogle(ev, false)
	assert.Nil(t, bare.Start)
	assert.Nil(t, bare.Reminders)

	full := toGoogle(ev, true)
	assert.Equal(t, "2026-03-10T10:00:00Z", full.Start.DateTime)
	assert.Equal(t, "2026-03-10T12:00:00Z", full.End.DateTime)
	assert.Len(t, full.Attendees, 1)
	assert.Len(t, full.Reminders.Overrides, 3)
	assert.Contains(t, full.Reminders.ForceSendFields, "UseDefault")
}

func TestGoogleClientFactory_RequiresCredential(t *testing.T) {
	f := NewGoogleClientFactory("", "")
	_, err := f.ForOwner(context.Background(), syncOwner())
	assert.ErrorIs(t, err, ErrNoCredential)

	f = NewGoogleClientFactory("client", "secret")
	owner := syncOwner()
	owner.CalendarRefreshToken = ""
	_, err = f.ForOwner(context.Background(), owner)
	assert.ErrorIs(t, err, ErrNoCredential)
}
