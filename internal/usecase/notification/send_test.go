package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/infra/memstore"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type stubDispatcher struct {
	events []notify.Event
	result notify.Result
}

func (s *stubDispatcher) Dispatch(_ context.Context, ev notify.Event) notify.Result {
	s.events = append(s.events, ev)
	return s.result
}

func TestSendNotification_DispatchesKind(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.CreateWithinCapacity(context.Background(), &models.Appointment{
		ID: "ap-1", UserID: "user-1", UserEmail: "sam@example.com", Date: "2026-03-10", TimeSlot: "10:00", Status: "approved",
	}, domain.SlotGuard{Capacity: 2}))

	d := &stubDispatcher{result: notify.Result{
		InApp: notify.ChannelResult{Attempted: true},
		Email: notify.ChannelResult{Attempted: true, Err: errors.New("smtp down")},
	}}
	uc := NewSendNotification(store, d)

	got, err := uc.Execute(context.Background(), "day_before", "ap-1")
	require.NoError(t, err)

	require.Len(t, d.events, 1)
	assert.Equal(t, notify.KindDayBefore, d.events[0].Kind)
	assert.Equal(t, "sent", got.InApp)
	assert.Equal(t, "failed: smtp down", got.Email)
}

func TestSendNotification_Rejects(t *testing.T) {
	uc := NewSendNotification(memstore.New(), &stubDispatcher{})

	_, err := uc.Execute(context.Background(), "carrier_pigeon", "ap-1")
	assert.True(t, httperr.IsBusiness(err, "unknown_notification"))

	_, err = uc.Execute(context.Background(), "follow_up", "missing")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
