// Package reminder runs the periodic reminder, follow-up and cleanup jobs.
package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

// Job is one periodic unit of work. Run must tolerate being called again
// for the same instant; progress is tracked in the appointment flags.
type Job interface {
	Name() string
	Run(ctx context.Context, now time.Time) (Report, error)
}

type Report struct {
	Candidates int   `json:"candidates"`
	Notified   int   `json:"notified"`
	Skipped    int   `json:"skipped"`
	Failed     int   `json:"failed"`
	Cleared    int64 `json:"cleared,omitempty"`
}

type Notifier interface {
	Dispatch(ctx context.Context, ev notify.Event) notify.Result
}

// Env is what every job shares.
type Env struct {
	Store    domain.ReminderStore
	Notifier Notifier
	Location *time.Location
	Metrics  *metrics.Metrics
	Log      zerolog.Logger
}

func (e Env) location() *time.Location {
	if e.Location != nil {
		return e.Location
	}
	return time.UTC
}

func (e Env) logFor(job string) zerolog.Logger {
	return e.Log.With().Str("job", job).Logger()
}

// delivered reports whether at least one channel reached the customer.
func delivered(res notify.Result) bool {
	return res.InApp.Delivered() || res.Email.Delivered()
}

func appointmentRef(ap *models.Appointment) *models.Appointment {
	cp := *ap
	return &cp
}
