package memstore

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func (s *Store) CreateWithinCapacity(_ context.Context, ap *models.Appointment, guard domain.SlotGuard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSlotLocked(ap.Date, ap.TimeSlot, "", guard); err != nil {
		return err
	}

	now := s.now()
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = now
	}
	ap.UpdatedAt = now
	s.appointments[ap.ID] = cloneAppointment(*ap)
	return nil
}

func (s *Store) RescheduleWithinCapacity(_ context.Context, ap *models.Appointment, guard domain.SlotGuard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := s.checkSlotLocked(ap.Date, ap.TimeSlot, ap.ID, guard); err != nil {
		return err
	}

	ap.UpdatedAt = s.now()
	s.appointments[ap.ID] = cloneAppointment(*ap)
	return nil
}

func (s *Store) checkSlotLocked(date, slot, excludeID string, guard domain.SlotGuard) error {
	for _, b := range s.blocked {
		if b.Date == date && b.TimeSlot == slot {
			return httperr.ErrBusiness("slot_blocked")
		}
	}

	booked := 0
	for id, ap := range s.appointments {
		if id == excludeID || ap.Date != date || ap.TimeSlot != slot {
			continue
		}
		if domain.Status(ap.Status).Occupies() {
			booked++
		}
	}
	if booked >= guard.Capacity {
		return httperr.ErrBusiness("slot_full")
	}
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneAppointment(ap)
	return &out, nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	ap.UpdatedAt = s.now()

	cur.Status = ap.Status
	cur.CancelledBy = ap.CancelledBy
	cur.CancelledAt = cloneTime(ap.CancelledAt)
	cur.CompletedAt = cloneTime(ap.CompletedAt)
	cur.FinalPrice = ap.FinalPrice
	cur.PaymentStatus = ap.PaymentStatus
	cur.Notes = ap.Notes
	cur.UpdatedAt = ap.UpdatedAt

	// Reminder flags are owned by the reminder jobs; a status write only
	// clears the ones its terminal state invalidates.
	switch domain.Status(cur.Status) {
	case domain.StatusCancelled:
		cur.Reminder24hSent = false
		cur.Reminder2hSent = false
	case domain.StatusCompleted:
		cur.FollowUpSent = false
	}

	s.appointments[ap.ID] = cur
	return nil
}

func (s *Store) UpdateCalendarState(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.CalendarEventID = ap.CalendarEventID
	cur.CalendarEventURL = ap.CalendarEventURL
	cur.CalendarSyncError = ap.CalendarSyncError
	cur.LastSyncAttempt = ap.LastSyncAttempt
	s.appointments[ap.ID] = cur
	return nil
}

func (s *Store) ListAppointmentsForPeriod(_ context.Context, from, to string) ([]models.Appointment, error) {
	return s.filterAppointments(func(ap *models.Appointment) bool {
		return ap.Date >= from && ap.Date < to
	}), nil
}

func (s *Store) ListAppointmentsForUser(_ context.Context, userID string) ([]models.Appointment, error) {
	return s.filterAppointments(func(ap *models.Appointment) bool {
		return ap.UserID == userID
	}), nil
}

func (s *Store) filterAppointments(keep func(*models.Appointment) bool) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Appointment, 0)
	for _, ap := range s.appointments {
		if keep(&ap) {
			out = append(out, cloneAppointment(ap))
		}
	}
	sortAppointments(out)
	return out
}

// -------- Blocked slots --------

func (s *Store) ListBlockedSlots(_ context.Context, from, to string) ([]models.BlockedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.BlockedSlot, 0)
	for _, b := range s.blocked {
		if b.Date >= from && b.Date < to {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out, nil
}

func (s *Store) CreateBlockedSlot(_ context.Context, b *models.BlockedSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.blocked {
		if existing.Date == b.Date && existing.TimeSlot == b.TimeSlot {
			return httperr.ErrBusiness("slot_already_blocked")
		}
	}
	s.nextBlockedID++
	b.ID = s.nextBlockedID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	s.blocked[b.ID] = *b
	return nil
}

func (s *Store) DeleteBlockedSlot(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blocked[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.blocked, id)
	return nil
}

func sortAppointments(out []models.Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}

// cloneAppointment detaches the slice and pointer fields so callers cannot
// mutate stored state.
func cloneAppointment(ap models.Appointment) models.Appointment {
	if ap.Services != nil {
		ap.Services = append([]string(nil), ap.Services...)
	}
	ap.LastSyncAttempt = cloneTime(ap.LastSyncAttempt)
	ap.CancelledAt = cloneTime(ap.CancelledAt)
	ap.CompletedAt = cloneTime(ap.CompletedAt)
	return ap
}

var _ domain.Repository = (*Store)(nil)
