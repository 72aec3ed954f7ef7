package reminder

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

// TimedReminder emails opted-in customers whose appointment starts between
// lead and lead+window from now. Each appointment is claimed through its flag
// before sending, and the claim is released when the email fails so the next
// run inside the window retries.
type TimedReminder struct {
	name   string
	kind   notify.Kind
	flag   domain.ReminderFlag
	lead   time.Duration
	window time.Duration
	env    Env
}

func NewReminder24h(env Env) *TimedReminder {
	return &TimedReminder{
		name:   "reminder_24h",
		kind:   notify.KindReminder24h,
		flag:   domain.FlagReminder24h,
		lead:   24 * time.Hour,
		window: time.Hour,
		env:    env,
	}
}

func NewReminder2h(env Env) *TimedReminder {
	return &TimedReminder{
		name:   "reminder_2h",
		kind:   notify.KindReminder2h,
		flag:   domain.FlagReminder2h,
		lead:   2 * time.Hour,
		window: 30 * time.Minute,
		env:    env,
	}
}

func (j *TimedReminder) Name() string { return j.name }

func (j *TimedReminder) Run(ctx context.Context, now time.Time) (Report, error) {
	var rep Report
	loc := j.env.location()
	log := j.env.logFor(j.name)

	now = now.In(loc)
	lo := now.Add(j.lead)
	hi := lo.Add(j.window)

	candidates, err := j.env.Store.ListReminderCandidates(ctx, domain.CandidateQuery{
		Statuses: []domain.Status{domain.StatusApproved, domain.StatusConfirmed},
		FromDate: domain.FormatDate(lo),
		ToDate:   domain.FormatDate(hi),
		Unset:    j.flag,
		OptedIn:  true,
	})
	if err != nil {
		return rep, err
	}

	for i := range candidates {
		ap := &candidates[i]

		start, err := domain.StartAt(ap.Date, ap.TimeSlot, loc)
		if err != nil {
			rep.Failed++
			log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("unparseable appointment time")
			continue
		}
		if until := start.Sub(now); until < j.lead || until >= j.lead+j.window {
			continue
		}
		rep.Candidates++

		claimed, err := j.env.Store.ClaimFlag(ctx, ap.ID, j.flag)
		if err != nil {
			rep.Failed++
			log.Error().Err(err).Str("appointment_id", ap.ID).Msg("claim reminder flag failed")
			continue
		}
		if !claimed {
			rep.Skipped++
			continue
		}

		res := j.env.Notifier.Dispatch(ctx, notify.Event{Kind: j.kind, Appointment: appointmentRef(ap)})
		switch {
		case res.Email.Delivered():
			rep.Notified++
			j.env.Metrics.ReminderSent(j.name)
		case res.Email.Attempted:
			rep.Failed++
			if err := j.env.Store.ReleaseFlag(ctx, ap.ID, j.flag); err != nil {
				log.Error().Err(err).Str("appointment_id", ap.ID).Msg("release reminder flag failed")
			}
		default:
			// nothing deliverable; keep the claim so the address is not retried
			rep.Skipped++
		}
	}

	return rep, nil
}
