package reminder

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
)

// Cleanup resets the 24h/2h flags on appointments whose date has passed.
type Cleanup struct {
	env Env
}

func NewCleanup(env Env) *Cleanup {
	return &Cleanup{env: env}
}

func (j *Cleanup) Name() string { return "reminder_cleanup" }

func (j *Cleanup) Run(ctx context.Context, now time.Time) (Report, error) {
	today := domain.FormatDate(now.In(j.env.location()))
	n, err := j.env.Store.ClearTimedFlagsBefore(ctx, today)
	if err != nil {
		return Report{}, err
	}
	return Report{Cleared: n}, nil
}
