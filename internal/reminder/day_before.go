package reminder

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
)

// DayBefore notifies approved appointments dated tomorrow, at most once per
// appointment.
type DayBefore struct {
	env Env
}

func NewDayBefore(env Env) *DayBefore {
	return &DayBefore{env: env}
}

func (j *DayBefore) Name() string { return "day_before" }

func (j *DayBefore) Run(ctx context.Context, now time.Time) (Report, error) {
	var rep Report
	log := j.env.logFor(j.Name())

	tomorrow := domain.FormatDate(timezone.StartOfDay(now.In(j.env.location())).AddDate(0, 0, 1))

	candidates, err := j.env.Store.ListReminderCandidates(ctx, domain.CandidateQuery{
		Statuses: []domain.Status{domain.StatusApproved},
		FromDate: tomorrow,
		ToDate:   tomorrow,
		Unset:    domain.FlagDayBefore,
	})
	if err != nil {
		return rep, err
	}

	for i := range candidates {
		ap := &candidates[i]
		rep.Candidates++

		claimed, err := j.env.Store.ClaimFlag(ctx, ap.ID, domain.FlagDayBefore)
		if err != nil {
			rep.Failed++
			log.Error().Err(err).Str("appointment_id", ap.ID).Msg("claim day-before flag failed")
			continue
		}
		if !claimed {
			rep.Skipped++
			continue
		}

		res := j.env.Notifier.Dispatch(ctx, notify.Event{Kind: notify.KindDayBefore, Appointment: appointmentRef(ap)})
		if !delivered(res) {
			rep.Failed++
			continue
		}
		rep.Notified++
		j.env.Metrics.ReminderSent(j.Name())
	}

	return rep, nil
}
