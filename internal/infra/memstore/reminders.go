package memstore

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func (s *Store) ListReminderCandidates(_ context.Context, q domain.CandidateQuery) ([]models.Appointment, error) {
	if !q.Unset.Valid() {
		return nil, fmt.Errorf("memstore: unknown reminder flag %q", q.Unset)
	}

	return s.filterAppointments(func(ap *models.Appointment) bool {
		if ap.Date < q.FromDate || ap.Date > q.ToDate {
			return false
		}
		if q.Unset.Get(ap) || (q.OptedIn && !ap.EmailReminders) {
			return false
		}
		for _, st := range q.Statuses {
			if ap.Status == string(st) {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) ClaimFlag(_ context.Context, id string, flag domain.ReminderFlag) (bool, error) {
	if !flag.Valid() {
		return false, fmt.Errorf("memstore: unknown reminder flag %q", flag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok || flag.Get(&ap) {
		return false, nil
	}
	flag.Set(&ap, true)
	s.appointments[id] = ap
	return true, nil
}

func (s *Store) ReleaseFlag(_ context.Context, id string, flag domain.ReminderFlag) error {
	if !flag.Valid() {
		return fmt.Errorf("memstore: unknown reminder flag %q", flag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	flag.Set(&ap, false)
	s.appointments[id] = ap
	return nil
}

func (s *Store) ListFollowUpCandidates(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	return s.filterAppointments(func(ap *models.Appointment) bool {
		if ap.Status != string(domain.StatusCompleted) || ap.FollowUpSent {
			return false
		}
		done := ap.UpdatedAt
		if ap.CompletedAt != nil {
			done = *ap.CompletedAt
		}
		return !done.Before(from) && done.Before(to)
	}), nil
}

func (s *Store) ClearTimedFlagsBefore(_ context.Context, date string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, ap := range s.appointments {
		if ap.Date >= date || (!ap.Reminder24hSent && !ap.Reminder2hSent) {
			continue
		}
		ap.Reminder24hSent = false
		ap.Reminder2hSent = false
		s.appointments[id] = ap
		n++
	}
	return n, nil
}

var _ domain.ReminderStore = (*Store)(nil)
