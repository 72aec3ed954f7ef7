package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type memNotifications struct {
	mu    sync.Mutex
	items []models.Notification
	err   error
}

func (m *memNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) ListNotifications(context.Context, string, *bool) ([]models.Notification, error) {
	return m.items, nil
}
func (m *memNotifications) CountUnread(context.Context, string) (int64, error) { return 0, nil }
func (m *memNotifications) GetNotification(context.Context, string) (*models.Notification, error) {
	return nil, nil
}
func (m *memNotifications) SetRead(context.Context, string, bool) error   { return nil }
func (m *memNotifications) DeleteNotification(context.Context, string) error { return nil }

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return "msg-" + msg.To, nil
}

func newTestDispatcher(t *testing.T, store Store, mailer EmailSender, support string) *Dispatcher {
	t.Helper()
	r, err := NewHTMLRenderer()
	require.NoError(t, err)
	return NewDispatcher(store, mailer, r, DispatcherConfig{
		From:           Sender{Address: "bookings@detailing.example", Name: "Detailing"},
		SupportAddress: support,
	}, nil, zerolog.Nop())
}

func registeredAppointment() *models.Appointment {
	return &models.Appointment{
		ID:        "ap-1",
		UserID:    "user-1",
		UserName:  "Jane",
		UserEmail: "jane@example.com",
		Service:   "Full Detail",
		Date:      "2026-03-10",
		TimeSlot:  "10:00",
		Status:    "approved",
	}
}

func TestDispatch_StatusChangeBothChannels(t *testing.T) {
	store := &memNotifications{}
	mailer := &recordingSender{}
	d := newTestDispatcher(t, store, mailer, "")

	res := d.Dispatch(context.Background(), Event{
		Kind:           KindStatusChanged,
		Appointment:    registeredAppointment(),
		PreviousStatus: "pending",
	})

	assert.True(t, res.InApp.Delivered())
	assert.True(t, res.Email.Delivered())
	assert.Equal(t, "msg-jane@example.com", res.Email.DeliveryID)

	require.Len(t, store.items, 1)
	n := store.items[0]
	assert.Equal(t, "user-1", n.UserID)
	assert.Equal(t, models.NotificationSuccess, n.Type)
	assert.Equal(t, "pending", n.Metadata.PreviousStatus)
	assert.Equal(t, "approved", n.Metadata.CurrentStatus)
	assert.False(t, n.Read)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Your appointment is now approved", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "changed from pending to approved")
}

func TestDispatch_GuestGetsEmailOnly(t *testing.T) {
	store := &memNotifications{}
	mailer := &recordingSender{}
	d := newTestDispatcher(t, store, mailer, "")

	ap := registeredAppointment()
	ap.UserID = models.GuestUserID

	res := d.Dispatch(context.Background(), Event{Kind: KindCreated, Appointment: ap})

	assert.False(t, res.InApp.Attempted)
	assert.True(t, res.Email.Delivered())
	assert.Empty(t, store.items)
}

func TestDispatch_EmailFailureDoesNotBlockInApp(t *testing.T) {
	store := &memNotifications{}
	mailer := &recordingSender{err: errors.New("smtp down")}
	d := newTestDispatcher(t, store, mailer, "")

	res := d.Dispatch(context.Background(), Event{Kind: KindCreated, Appointment: registeredAppointment()})

	assert.True(t, res.InApp.Delivered())
	assert.True(t, res.Email.Attempted)
	assert.Error(t, res.Email.Err)
	assert.Len(t, store.items, 1)
}

func TestDispatch_InAppFailureDoesNotBlockEmail(t *testing.T) {
	store := &memNotifications{err: errors.New("db down")}
	mailer := &recordingSender{}
	d := newTestDispatcher(t, store, mailer, "")

	res := d.Dispatch(context.Background(), Event{Kind: KindCreated, Appointment: registeredAppointment()})

	assert.Error(t, res.InApp.Err)
	assert.True(t, res.Email.Delivered())
}

func TestDispatch_TimedRemindersRequireOptIn(t *testing.T) {
	store := &memNotifications{}
	mailer := &recordingSender{}
	d := newTestDispatcher(t, store, mailer, "")

	ap := registeredAppointment()
	ap.EmailReminders = false
	res := d.Dispatch(context.Background(), Event{Kind: KindReminder24h, Appointment: ap})
	assert.False(t, res.Email.Attempted)
	assert.False(t, res.InApp.Attempted)

	ap.EmailReminders = true
	res = d.Dispatch(context.Background(), Event{Kind: KindReminder24h, Appointment: ap})
	assert.True(t, res.Email.Delivered())
	assert.Empty(t, store.items)
}

func TestDispatch_InvalidEmailSkipsEmail(t *testing.T) {
	mailer := &recordingSender{}
	d := newTestDispatcher(t, &memNotifications{}, mailer, "")

	ap := registeredAppointment()
	ap.UserEmail = "not-an-email"
	res := d.Dispatch(context.Background(), Event{Kind: KindFollowUp, Appointment: ap})

	assert.True(t, res.InApp.Delivered())
	assert.False(t, res.Email.Attempted)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_TwiceDeliversTwice(t *testing.T) {
	store := &memNotifications{}
	mailer := &recordingSender{}
	d := newTestDispatcher(t, store, mailer, "")

	ev := Event{Kind: KindDayBefore, Appointment: registeredAppointment()}
	d.Dispatch(context.Background(), ev)
	d.Dispatch(context.Background(), ev)

	assert.Len(t, store.items, 2)
	assert.Len(t, mailer.sent, 2)
	assert.NotEqual(t, store.items[0].ID, store.items[1].ID)
}

func TestAlertSupport(t *testing.T) {
	mailer := &recordingSender{}

	d := newTestDispatcher(t, &memNotifications{}, mailer, "")
	require.NoError(t, d.AlertSupport(context.Background(), registeredAppointment(), "cancelled by client"))
	assert.Empty(t, mailer.sent)

	d = newTestDispatcher(t, &memNotifications{}, mailer, "support@detailing.example")
	require.NoError(t, d.AlertSupport(context.Background(), registeredAppointment(), "cancelled by client"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "support@detailing.example", mailer.sent[0].To)
	assert.Equal(t, "Appointment cancelled: 2026-03-10 10:00", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "cancelled by client")
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("reminder_2h")
	assert.True(t, ok)
	assert.Equal(t, KindReminder2h, k)

	_, ok = ParseKind("support_alert")
	assert.False(t, ok)
	_, ok = ParseKind("bogus")
	assert.False(t, ok)
}
