package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		label  string
		hour   int
		minute int
	}{
		{"08:00", 8, 0},
		{"8:00", 8, 0},
		{"16:30", 16, 30},
		{"8:00 AM", 8, 0},
		{"8:00am", 8, 0},
		{"08:15 PM", 20, 15},
		{"2:00 PM", 14, 0},
		{"12:00 PM", 12, 0},
		{"12:30 AM", 0, 30},
		{" 09:45:00 ", 9, 45},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			h, m, err := ParseClock(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, label := range []string{"", "noon", "25:00", "8", "13:00 PM"} {
		_, _, err := ParseClock(label)
		assert.True(t, httperr.IsBusiness(err, "invalid_time"), "label %q", label)
	}
}

func TestStartAt(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := StartAt("2026-03-10", "2:00 PM", ny)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 10, 14, 0, 0, 0, ny).Equal(got))

	got, err = StartAt("2026-03-10", "  ", ny)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 10, 9, 0, 0, 0, ny).Equal(got), "empty label falls back to 09:00")

	_, err = StartAt("03/10/2026", "09:00", ny)
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestCapacityPolicy_SlotAcceptsAnyClockForm(t *testing.T) {
	policy := CapacityPolicy{Slots: []string{"8:00 AM", "2:00 PM"}, Capacity: 2}

	for _, label := range []string{"8:00 AM", "08:00", "8:00", "2:00 PM", "14:00"} {
		slot, err := policy.Slot(label)
		require.NoError(t, err, label)
		assert.Contains(t, []string{"08:00", "14:00"}, slot)
	}

	_, err := policy.Slot("10:00")
	assert.True(t, httperr.IsBusiness(err, "unknown_slot"))
}

func TestNormalizeSlots(t *testing.T) {
	got, err := NormalizeSlots([]string{"2:00 PM", "8:00 AM", "08:00", "10:30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "10:30", "14:00"}, got)

	_, err = NormalizeSlots([]string{"08:00", "later"})
	assert.Error(t, err)
}
