package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusConfirmed, StatusCompleted, StatusRejected, StatusCancelled}
	allowed := map[Status][]Status{
		StatusPending:   {StatusApproved, StatusConfirmed, StatusRejected, StatusCancelled},
		StatusApproved:  {StatusConfirmed, StatusCompleted, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}

			err := CanTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "%s -> %s: %v", from, to, err)
			}
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.True(t, httperr.IsBusiness(CanTransition("archived", StatusApproved), "invalid_status"))
	assert.True(t, httperr.IsBusiness(CanTransition(StatusPending, "archived"), "invalid_status"))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("  Approved ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseStatus("done")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
		occupies bool
	}{
		{StatusPending, false, true},
		{StatusApproved, false, true},
		{StatusConfirmed, false, true},
		{StatusCompleted, true, true},
		{StatusRejected, true, false},
		{StatusCancelled, true, false},
		{"bogus", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
			assert.Equal(t, tt.occupies, tt.status.Occupies())
		})
	}
}

func TestChangeStatus(t *testing.T) {
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	t.Run("same status is a no-op", func(t *testing.T) {
		ap := &models.Appointment{Status: "approved"}
		changed, err := ChangeStatus(ap, StatusApproved, models.RoleAdmin, now)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("cancel records the actor and clears timed flags", func(t *testing.T) {
		ap := &models.Appointment{Status: "approved", Reminder24hSent: true, Reminder2hSent: true}
		changed, err := ChangeStatus(ap, StatusCancelled, models.RoleClient, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, CancelledByClient, ap.CancelledBy)
		require.NotNil(t, ap.CancelledAt)
		assert.True(t, now.Equal(*ap.CancelledAt))
		assert.False(t, ap.Reminder24hSent)
		assert.False(t, ap.Reminder2hSent)
	})

	t.Run("admin cancel", func(t *testing.T) {
		ap := &models.Appointment{Status: "pending"}
		_, err := ChangeStatus(ap, StatusCancelled, models.RoleAdmin, now)
		require.NoError(t, err)
		assert.Equal(t, CancelledByAdmin, ap.CancelledBy)
	})

	t.Run("complete stamps completion", func(t *testing.T) {
		ap := &models.Appointment{Status: "confirmed"}
		_, err := ChangeStatus(ap, StatusCompleted, models.RoleAdmin, now)
		require.NoError(t, err)
		require.NotNil(t, ap.CompletedAt)
		assert.False(t, ap.FollowUpSent)
	})

	t.Run("terminal states stay put", func(t *testing.T) {
		ap := &models.Appointment{Status: "completed"}
		_, err := ChangeStatus(ap, StatusCancelled, models.RoleAdmin, now)
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
		assert.Equal(t, "completed", ap.Status)
	})
}

func TestReschedule(t *testing.T) {
	ap := &models.Appointment{Status: "pending", Date: "2026-03-10", TimeSlot: "08:00", Reminder24hSent: true, ReminderSent: true}
	require.NoError(t, Reschedule(ap, "2026-03-11", "10:00"))
	assert.Equal(t, "2026-03-11", ap.Date)
	assert.Equal(t, "10:00", ap.TimeSlot)
	assert.Equal(t, 1, ap.RescheduleCount)
	assert.False(t, ap.Reminder24hSent)
	assert.False(t, ap.ReminderSent)

	approved := &models.Appointment{Status: "approved"}
	assert.True(t, httperr.IsBusiness(Reschedule(approved, "2026-03-11", "10:00"), "not_editable"))
}
