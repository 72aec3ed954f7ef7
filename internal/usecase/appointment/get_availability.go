package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

// MaxAvailabilityDays bounds one availability query.
const MaxAvailabilityDays = 31

type AvailabilityInput struct {
	From string
	// To is inclusive; empty means a single day.
	To string
}

type GetAvailability struct {
	repo  domain.Repository
	rules BookingRules
}

func NewGetAvailability(repo domain.Repository, rules BookingRules) *GetAvailability {
	return &GetAvailability{repo: repo, rules: rules}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.DayAvailability, error) {

	loc := uc.rules.location()

	from, err := domain.ParseDate(in.From, loc)
	if err != nil {
		return nil, err
	}
	to := from
	if in.To != "" {
		if to, err = domain.ParseDate(in.To, loc); err != nil {
			return nil, err
		}
	}
	if to.Before(from) || !to.Before(from.AddDate(0, 0, MaxAvailabilityDays)) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	start := domain.FormatDate(from)
	end := domain.FormatDate(to.AddDate(0, 0, 1))

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	blocked, err := uc.repo.ListBlockedSlots(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DayAvailability, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		out = append(out, uc.rules.Policy.Compute(day, appointments, blocked))
	}
	return out, nil
}

// CheckBookable reports why (date, slot) cannot take a booking right now.
func (uc *GetAvailability) CheckBookable(ctx context.Context, date, slot string) error {
	day, err := domain.ParseDate(date, uc.rules.location())
	if err != nil {
		return err
	}
	canonical, err := uc.rules.Policy.Slot(slot)
	if err != nil {
		return err
	}
	return checkBookable(ctx, uc.repo, uc.rules.Policy, day, canonical, "")
}

// checkBookable is the fast pre-check; the guarded write repeats the block
// and capacity part under a lock.
func checkBookable(
	ctx context.Context,
	repo domain.Repository,
	policy domain.CapacityPolicy,
	day time.Time,
	slot string,
	excludeID string,
) error {

	if policy.IsClosed(day) {
		return httperr.ErrBusiness("closed_day")
	}

	date := domain.FormatDate(day)
	next := domain.FormatDate(day.AddDate(0, 0, 1))

	appointments, err := repo.ListAppointmentsForPeriod(ctx, date, next)
	if err != nil {
		return err
	}
	if excludeID != "" {
		kept := appointments[:0]
		for _, ap := range appointments {
			if ap.ID != excludeID {
				kept = append(kept, ap)
			}
		}
		appointments = kept
	}

	blocked, err := repo.ListBlockedSlots(ctx, date, next)
	if err != nil {
		return err
	}

	st, _ := policy.Compute(day, appointments, blocked).Find(slot)
	return policy.CheckBookable(day, st)
}
