package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const DefaultCapacity = 2

var DefaultSlots = []string{"08:00", "10:00", "12:00", "14:00", "16:00"}

// CapacityPolicy is the fixed daily slot catalogue and its booking limits.
type CapacityPolicy struct {
	Slots     []string
	Capacity  int
	ClosedDay time.Weekday
}

func DefaultPolicy() CapacityPolicy {
	return CapacityPolicy{
		Slots:     append([]string(nil), DefaultSlots...),
		Capacity:  DefaultCapacity,
		ClosedDay: time.Sunday,
	}
}

type SlotStatus struct {
	Slot      string `json:"slot"`
	Booked    int    `json:"booked"`
	Blocked   bool   `json:"blocked"`
	Available int    `json:"available"`
	Bookable  bool   `json:"bookable"`
}

type DayAvailability struct {
	Date   string       `json:"date"`
	Closed bool         `json:"closed"`
	Slots  []SlotStatus `json:"slots"`
}

// Slot resolves a label against the catalogue and returns its canonical form.
func (p CapacityPolicy) Slot(label string) (string, error) {
	slot, err := CanonicalSlot(label)
	if err != nil {
		return "", err
	}
	for _, s := range p.Slots {
		if c, err := CanonicalSlot(s); err == nil && c == slot {
			return slot, nil
		}
	}
	return "", httperr.ErrBusiness("unknown_slot")
}

// NormalizeSlots turns a configured catalogue into sorted, distinct "HH:MM"
// labels. Any label ParseClock rejects fails the whole catalogue.
func NormalizeSlots(labels []string) ([]string, error) {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		slot, err := CanonicalSlot(label)
		if err != nil {
			return nil, err
		}
		if seen[slot] {
			continue
		}
		seen[slot] = true
		out = append(out, slot)
	}
	sort.Strings(out)
	return out, nil
}

func (p CapacityPolicy) IsClosed(day time.Time) bool {
	return day.Weekday() == p.ClosedDay
}

// Compute reports availability for one day. Appointments and blocks for other
// days are ignored, so callers may pass range-scoped result sets unfiltered.
func (p CapacityPolicy) Compute(
	day time.Time,
	appointments []models.Appointment,
	blocked []models.BlockedSlot,
) DayAvailability {

	date := FormatDate(day)
	closed := p.IsClosed(day)

	booked := make(map[string]int, len(p.Slots))
	for _, ap := range appointments {
		if ap.Date != date || !Status(ap.Status).Occupies() {
			continue
		}
		booked[ap.TimeSlot]++
	}

	isBlocked := make(map[string]bool)
	for _, b := range blocked {
		if b.Date == date {
			isBlocked[b.TimeSlot] = true
		}
	}

	out := DayAvailability{
		Date:   date,
		Closed: closed,
		Slots:  make([]SlotStatus, 0, len(p.Slots)),
	}

	for _, slot := range p.Slots {
		st := SlotStatus{
			Slot:    slot,
			Booked:  booked[slot],
			Blocked: isBlocked[slot],
		}
		if !closed && !st.Blocked {
			st.Available = max(0, p.Capacity-st.Booked)
		}
		st.Bookable = st.Available > 0
		out.Slots = append(out.Slots, st)
	}

	return out
}

// CheckBookable explains why a slot cannot accept a booking, or returns nil.
func (p CapacityPolicy) CheckBookable(day time.Time, st SlotStatus) error {
	switch {
	case p.IsClosed(day):
		return httperr.ErrBusiness("closed_day")
	case st.Blocked:
		return httperr.ErrBusiness("slot_blocked")
	case st.Booked >= p.Capacity:
		return httperr.ErrBusiness("slot_full")
	}
	return nil
}

func (d DayAvailability) Find(slot string) (SlotStatus, bool) {
	for _, s := range d.Slots {
		if s.Slot == slot {
			return s, true
		}
	}
	return SlotStatus{}, false
}
