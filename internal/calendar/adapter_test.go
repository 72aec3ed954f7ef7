package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type fakeEvents struct {
	inserted  []Event
	patched   []patchCall
	deleted   []string
	insertErr error
	patchErr  error
	deleteErr error
	nextID    string
}

type patchCall struct {
	EventID    string
	Event      Event
	WithTiming bool
}

func (f *fakeEvents) Insert(_ context.Context, _ string, ev Event) (EventRef, error) {
	if f.insertErr != nil {
		return EventRef{}, f.insertErr
	}
	f.inserted = append(f.inserted, ev)
	id := f.nextID
	if id == "" {
		id = "evt-1"
	}
	return EventRef{ID: id, URL: "https://calendar.example/" + id}, nil
}

func (f *fakeEvents) Patch(_ context.Context, _ string, eventID string, ev Event, withTiming bool) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patched = append(f.patched, patchCall{EventID: eventID, Event: ev, WithTiming: withTiming})
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, _ string, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type staticOwner struct {
	owner *models.User
	err   error
}

func (s staticOwner) CalendarOwner(context.Context) (*models.User, error) { return s.owner, s.err }

type staticFactory struct {
	api EventsAPI
	err error
}

func (s staticFactory) ForOwner(context.Context, *models.User) (EventsAPI, error) { return s.api, s.err }

func newTestAdapter(t *testing.T, owner *models.User, api EventsAPI) *Adapter {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewAdapter(staticOwner{owner: owner}, staticFactory{api: api}, AdapterConfig{Location: loc}, nil, zerolog.Nop())
}

func syncOwner() *models.User {
	return &models.User{ID: "admin-1", Role: models.RoleAdmin, CalendarSyncEnabled: true, CalendarRefreshToken: "rt"}
}

func pendingAppointment() *models.Appointment {
	return &models.Appointment{
		ID:        "ap-1",
		UserName:  "Jane",
		UserEmail: "jane@example.com",
		Service:   "Full Detail",
		Date:      "2026-03-10",
		TimeSlot:  "10:00",
		Status:    "pending",
	}
}

func TestAdapter_CreateStoresEventReference(t *testing.T) {
	api := &fakeEvents{nextID: "evt-42"}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()

	require.NoError(t, a.Create(context.Background(), ap))

	assert.Equal(t, "evt-42", ap.CalendarEventID)
	assert.Equal(t, "https://calendar.example/evt-42", ap.CalendarEventURL)
	assert.Empty(t, ap.CalendarSyncError)
	require.NotNil(t, ap.LastSyncAttempt)

	require.Len(t, api.inserted, 1)
	ev := api.inserted[0]
	assert.Equal(t, "[PENDING] Full Detail - Jane", ev.Summary)
	assert.Equal(t, 10, ev.Start.Hour())
	assert.Equal(t, "America/New_York", ev.Start.Location().String())
	assert.Equal(t, 2*time.Hour, ev.End.Sub(ev.Start))
	assert.Equal(t, []int64{1440, 120, 30}, ev.ReminderMinutes)
	assert.Equal(t, "jane@example.com", ev.AttendeeEmail)
}

func TestAdapter_NoOwnerIsNoop(t *testing.T) {
	api := &fakeEvents{}
	a := newTestAdapter(t, nil, api)
	ap := pendingAppointment()

	require.NoError(t, a.Create(context.Background(), ap))
	assert.Empty(t, ap.CalendarEventID)
	assert.Nil(t, ap.LastSyncAttempt)
	assert.Empty(t, api.inserted)
}

func TestAdapter_MissingCredentialIsNoop(t *testing.T) {
	loc := time.UTC
	a := NewAdapter(staticOwner{owner: syncOwner()}, staticFactory{err: ErrNoCredential}, AdapterConfig{Location: loc}, nil, zerolog.Nop())
	ap := pendingAppointment()

	require.NoError(t, a.Reschedule(context.Background(), ap))
	assert.Nil(t, ap.LastSyncAttempt)
}

func TestAdapter_UpdateDeletesOnCancel(t *testing.T) {
	api := &fakeEvents{}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.Status = "cancelled"
	ap.CalendarEventID = "evt-1"
	ap.CalendarEventURL = "https://calendar.example/evt-1"

	require.NoError(t, a.Update(context.Background(), ap))

	assert.Equal(t, []string{"evt-1"}, api.deleted)
	assert.Empty(t, ap.CalendarEventID)
	assert.Empty(t, ap.CalendarEventURL)
}

func TestAdapter_UpdateTreatsGoneEventAsDeleted(t *testing.T) {
	api := &fakeEvents{deleteErr: ErrEventGone}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.Status = "rejected"
	ap.CalendarEventID = "evt-1"

	require.NoError(t, a.Update(context.Background(), ap))
	assert.Empty(t, ap.CalendarEventID)
	assert.Empty(t, ap.CalendarSyncError)
}

func TestAdapter_FailedDeleteKeepsEventForReconciliation(t *testing.T) {
	api := &fakeEvents{deleteErr: errors.New("backend error")}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.Status = "cancelled"
	ap.CalendarEventID = "evt-1"

	err := a.Update(context.Background(), ap)
	assert.Error(t, err)
	assert.Equal(t, "evt-1", ap.CalendarEventID)
	assert.Contains(t, ap.CalendarSyncError, "backend error")
	require.NotNil(t, ap.LastSyncAttempt)
}

func TestAdapter_UpdateCreatesWhenMissing(t *testing.T) {
	api := &fakeEvents{}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.Status = "confirmed"

	require.NoError(t, a.Update(context.Background(), ap))
	assert.Len(t, api.inserted, 1)
	assert.Equal(t, "evt-1", ap.CalendarEventID)
}

func TestAdapter_UpdatePatchesTitleOnly(t *testing.T) {
	api := &fakeEvents{}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.Status = "confirmed"
	ap.CalendarEventID = "evt-1"

	require.NoError(t, a.Update(context.Background(), ap))
	require.Len(t, api.patched, 1)
	assert.False(t, api.patched[0].WithTiming)
	assert.Equal(t, "[CONFIRMED] Full Detail - Jane", api.patched[0].Event.Summary)
}

func TestAdapter_RescheduleMovesEvent(t *testing.T) {
	api := &fakeEvents{}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()
	ap.CalendarEventID = "evt-1"
	ap.Date = "2026-03-11"
	ap.TimeSlot = "2:00 PM"

	require.NoError(t, a.Reschedule(context.Background(), ap))
	require.Len(t, api.patched, 1)
	call := api.patched[0]
	assert.True(t, call.WithTiming)
	assert.Equal(t, 11, call.Event.Start.Day())
	assert.Equal(t, 14, call.Event.Start.Hour())
}

func TestAdapter_FailureRecordedOnAppointment(t *testing.T) {
	api := &fakeEvents{insertErr: errors.New("quota exceeded")}
	a := newTestAdapter(t, syncOwner(), api)
	ap := pendingAppointment()

	err := a.Create(context.Background(), ap)
	require.Error(t, err)
	assert.Contains(t, ap.CalendarSyncError, "quota exceeded")
	assert.NotNil(t, ap.LastSyncAttempt)
	assert.Empty(t, ap.CalendarEventID)
}

func TestAdapter_CancelWithoutOwnerClearsReference(t *testing.T) {
	a := newTestAdapter(t, nil, &fakeEvents{})
	ap := pendingAppointment()
	ap.Status = "cancelled"
	ap.CalendarEventID = "evt-1"

	err := a.Update(context.Background(), ap)
	require.Error(t, err)
	assert.Empty(t, ap.CalendarEventID)
	assert.Equal(t, orphanedNote, ap.CalendarSyncError)
}

type countingOwners struct {
	calls int
	owner *models.User
}

func (c *countingOwners) FindCalendarOwner(context.Context) (*models.User, error) {
	c.calls++
	return c.owner, nil
}

func TestCachedOwners_CachesUntilInvalidated(t *testing.T) {
	store := &countingOwners{owner: syncOwner()}
	owners := NewCachedOwners(store, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := owners.CalendarOwner(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin-1", got.ID)
	}
	assert.Equal(t, 1, store.calls)

	owners.Invalidate()
	_, err := owners.CalendarOwner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestDescription_SkipsEmptyFields(t *testing.T) {
	ap := pendingAppointment()
	ap.Address = models.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"}

	d := Description(ap)
	assert.Contains(t, d, "Address: 1 Main St, Springfield, IL 62701")
	assert.NotContains(t, d, "Phone:")
	assert.NotContains(t, d, "Final price")
}
