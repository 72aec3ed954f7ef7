package reminder

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

const (
	followUpAfter  = 12 * 7 * 24 * time.Hour
	followUpWindow = 7 * 24 * time.Hour
)

// FollowUp invites customers back roughly twelve weeks after a completed
// visit. Customers with several eligible visits get one message about the
// latest; all of them are marked.
type FollowUp struct {
	env Env
}

func NewFollowUp(env Env) *FollowUp {
	return &FollowUp{env: env}
}

func (j *FollowUp) Name() string { return "follow_up" }

func (j *FollowUp) Run(ctx context.Context, now time.Time) (Report, error) {
	var rep Report
	log := j.env.logFor(j.Name())

	to := now.Add(-followUpAfter)
	from := to.Add(-followUpWindow)

	candidates, err := j.env.Store.ListFollowUpCandidates(ctx, from, to)
	if err != nil {
		return rep, err
	}

	groups, order := groupByCustomer(candidates)
	for _, key := range order {
		group := groups[key]
		latest := latestCompleted(group)
		rep.Candidates++

		if key == "" {
			rep.Skipped++
			continue
		}

		claimed, err := j.env.Store.ClaimFlag(ctx, latest.ID, domain.FlagFollowUp)
		if err != nil {
			rep.Failed++
			log.Error().Err(err).Str("appointment_id", latest.ID).Msg("claim follow-up flag failed")
			continue
		}
		if !claimed {
			rep.Skipped++
			continue
		}

		for _, ap := range group {
			if ap.ID == latest.ID {
				continue
			}
			if _, err := j.env.Store.ClaimFlag(ctx, ap.ID, domain.FlagFollowUp); err != nil {
				log.Error().Err(err).Str("appointment_id", ap.ID).Msg("mark follow-up flag failed")
			}
		}

		res := j.env.Notifier.Dispatch(ctx, notify.Event{Kind: notify.KindFollowUp, Appointment: appointmentRef(latest)})
		if !delivered(res) {
			rep.Failed++
			continue
		}
		rep.Notified++
		j.env.Metrics.ReminderSent(j.Name())
	}

	return rep, nil
}

// customerKey identifies a customer across bookings: registered users by id,
// guests by normalised email. An empty key means the customer is unreachable.
func customerKey(ap *models.Appointment) string {
	if !ap.IsGuest() {
		return "user:" + ap.UserID
	}
	email := strings.ToLower(strings.TrimSpace(ap.UserEmail))
	if email == "" {
		return ""
	}
	return "email:" + email
}

func groupByCustomer(apps []models.Appointment) (map[string][]*models.Appointment, []string) {
	groups := make(map[string][]*models.Appointment)
	var order []string
	for i := range apps {
		ap := &apps[i]
		key := customerKey(ap)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], ap)
	}
	return groups, order
}

func completedAt(ap *models.Appointment) time.Time {
	if ap.CompletedAt != nil {
		return *ap.CompletedAt
	}
	return ap.UpdatedAt
}

func latestCompleted(group []*models.Appointment) *models.Appointment {
	latest := group[0]
	for _, ap := range group[1:] {
		if completedAt(ap).After(completedAt(latest)) {
			latest = ap
		}
	}
	return latest
}
