package memstore

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID string, read *bool) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if read != nil && n.Read != *read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CountUnread(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, item := range s.notifications {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetNotification(_ context.Context, id string) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, notify.ErrNotFound
	}
	return &n, nil
}

func (s *Store) SetRead(_ context.Context, id string, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return notify.ErrNotFound
	}
	n.Read = read
	n.ReadAt = nil
	if read {
		now := s.now()
		n.ReadAt = &now
	}
	s.notifications[id] = n
	return nil
}

func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return notify.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

var _ notify.Store = (*Store)(nil)
