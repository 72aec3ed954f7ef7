package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

var ErrNotFound = errors.New("appointment: not found")

// ReminderFlag names one of the per-appointment "already sent" markers. Its
// value is the column that stores it.
type ReminderFlag string

const (
	FlagReminder24h ReminderFlag = "reminder_24h_sent"
	FlagReminder2h  ReminderFlag = "reminder_2h_sent"
	FlagDayBefore   ReminderFlag = "reminder_sent"
	FlagFollowUp    ReminderFlag = "follow_up_sent"
)

func (f ReminderFlag) Valid() bool {
	switch f {
	case FlagReminder24h, FlagReminder2h, FlagDayBefore, FlagFollowUp:
		return true
	}
	return false
}

func (f ReminderFlag) Get(ap *models.Appointment) bool {
	switch f {
	case FlagReminder24h:
		return ap.Reminder24hSent
	case FlagReminder2h:
		return ap.Reminder2hSent
	case FlagDayBefore:
		return ap.ReminderSent
	case FlagFollowUp:
		return ap.FollowUpSent
	}
	return false
}

func (f ReminderFlag) Set(ap *models.Appointment, v bool) {
	switch f {
	case FlagReminder24h:
		ap.Reminder24hSent = v
	case FlagReminder2h:
		ap.Reminder2hSent = v
	case FlagDayBefore:
		ap.ReminderSent = v
	case FlagFollowUp:
		ap.FollowUpSent = v
	}
}

// CandidateQuery selects appointments a reminder job may act on:
// status in Statuses, FromDate <= date <= ToDate, Unset flag still false and,
// when OptedIn, email reminders enabled.
type CandidateQuery struct {
	Statuses []Status
	FromDate string
	ToDate   string
	Unset    ReminderFlag
	OptedIn  bool
}

// ReminderStore is the persistence the reminder jobs need. Claims are
// conditional updates: ClaimFlag reports false when another run already set
// the flag.
type ReminderStore interface {
	ListReminderCandidates(ctx context.Context, q CandidateQuery) ([]models.Appointment, error)
	ClaimFlag(ctx context.Context, id string, flag ReminderFlag) (bool, error)
	ReleaseFlag(ctx context.Context, id string, flag ReminderFlag) error

	// ListFollowUpCandidates returns completed appointments with
	// follow_up_sent unset whose completion time falls in [from, to).
	ListFollowUpCandidates(ctx context.Context, from, to time.Time) ([]models.Appointment, error)

	// ClearTimedFlagsBefore resets the 24h/2h flags on appointments dated
	// before date and returns how many rows changed.
	ClearTimedFlagsBefore(ctx context.Context, date string) (int64, error)
}
