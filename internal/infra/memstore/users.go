package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func (s *Store) SaveUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	} else if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) FindCalendarOwner(_ context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owners []models.User
	for _, u := range s.users {
		if u.Role == models.RoleAdmin && u.CalendarSyncEnabled && u.CalendarRefreshToken != "" {
			owners = append(owners, u)
		}
	}
	if len(owners) == 0 {
		return nil, nil
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].CreatedAt.Before(owners[j].CreatedAt)
	})
	return &owners[0], nil
}

// -------- Audit --------

func (s *Store) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = uint(len(s.auditLogs) + 1)
	s.auditLogs = append(s.auditLogs, *l)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, entityID string, limit int) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditLog, 0)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if entityID != "" && l.EntityID != entityID {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
