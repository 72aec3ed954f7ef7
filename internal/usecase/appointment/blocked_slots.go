package appointment

import (
	"context"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type BlockSlotInput struct {
	Date     string
	TimeSlot string
	Reason   string
	ActorID  string
}

// BlockSlot removes a slot from availability. Existing bookings in the slot
// are kept; only new bookings are refused.
type BlockSlot struct {
	repo  domain.Repository
	rules BookingRules
	audit *audit.Dispatcher
}

func NewBlockSlot(repo domain.Repository, rules BookingRules, audit *audit.Dispatcher) *BlockSlot {
	return &BlockSlot{repo: repo, rules: rules, audit: audit}
}

func (uc *BlockSlot) Execute(ctx context.Context, in BlockSlotInput) (*models.BlockedSlot, error) {
	day, err := domain.ParseDate(in.Date, uc.rules.location())
	if err != nil {
		return nil, err
	}
	slot, err := uc.rules.Policy.Slot(in.TimeSlot)
	if err != nil {
		return nil, err
	}

	b := &models.BlockedSlot{
		Date:      domain.FormatDate(day),
		TimeSlot:  slot,
		BlockedBy: in.ActorID,
		Reason:    strings.TrimSpace(in.Reason),
	}
	if err := uc.repo.CreateBlockedSlot(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "slot_blocked",
		Entity:   "blocked_slot",
		EntityID: strconv.FormatUint(uint64(b.ID), 10),
		Metadata: map[string]string{"date": b.Date, "time_slot": b.TimeSlot},
	})
	return b, nil
}

type UnblockSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUnblockSlot(repo domain.Repository, audit *audit.Dispatcher) *UnblockSlot {
	return &UnblockSlot{repo: repo, audit: audit}
}

func (uc *UnblockSlot) Execute(ctx context.Context, id uint, actorID string) error {
	if err := uc.repo.DeleteBlockedSlot(ctx, id); err != nil {
		return notFound(err, "blocked_slot_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "slot_unblocked",
		Entity:   "blocked_slot",
		EntityID: strconv.FormatUint(uint64(id), 10),
	})
	return nil
}

type ListBlockedSlots struct {
	repo  domain.Repository
	rules BookingRules
}

func NewListBlockedSlots(repo domain.Repository, rules BookingRules) *ListBlockedSlots {
	return &ListBlockedSlots{repo: repo, rules: rules}
}

// Execute lists blocks with from <= date <= to.
func (uc *ListBlockedSlots) Execute(ctx context.Context, from, to string) ([]models.BlockedSlot, error) {
	loc := uc.rules.location()
	start, err := domain.ParseDate(from, loc)
	if err != nil {
		return nil, err
	}
	end := start
	if to != "" {
		if end, err = domain.ParseDate(to, loc); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	return uc.repo.ListBlockedSlots(ctx, domain.FormatDate(start), domain.FormatDate(end.AddDate(0, 0, 1)))
}
