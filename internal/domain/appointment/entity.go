package appointment

import (
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const (
	CancelledByClient = "client"
	CancelledByAdmin  = "admin"
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus applies a transition in place. It returns changed=false when the
// requested status equals the current one, so callers can skip side effects.
func ChangeStatus(ap *models.Appointment, to Status, actorRole string, now time.Time) (bool, error) {
	from := Status(ap.Status)
	if from == to {
		return false, nil
	}
	if err := CanTransition(from, to); err != nil {
		return false, err
	}

	ap.Status = string(to)

	switch to {
	case StatusCancelled:
		by := CancelledByClient
		if actorRole == models.RoleAdmin {
			by = CancelledByAdmin
		}
		ap.CancelledBy = by
		ap.CancelledAt = &now
		ap.Reminder24hSent = false
		ap.Reminder2hSent = false
	case StatusCompleted:
		ap.CompletedAt = &now
		ap.FollowUpSent = false
	}

	return true, nil
}

// Reschedule moves a pending appointment to another (date, slot).
func Reschedule(ap *models.Appointment, date, slot string) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.Date = date
	ap.TimeSlot = slot
	ap.RescheduleCount++
	ap.Reminder24hSent = false
	ap.Reminder2hSent = false
	ap.ReminderSent = false
	return nil
}
