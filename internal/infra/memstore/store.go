// Package memstore keeps every record in process memory. It backs
// STORE_DRIVER=memory and the use case tests; data is lost on restart.
package memstore

import (
	"sync"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type Store struct {
	mu sync.Mutex

	appointments  map[string]models.Appointment
	blocked       map[uint]models.BlockedSlot
	nextBlockedID uint
	notifications map[string]models.Notification
	users         map[string]models.User
	auditLogs     []models.AuditLog

	now func() time.Time
}

func New() *Store {
	return &Store{
		appointments:  make(map[string]models.Appointment),
		blocked:       make(map[uint]models.BlockedSlot),
		notifications: make(map[string]models.Notification),
		users:         make(map[string]models.User),
		now:           time.Now,
	}
}

// WithClock replaces the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}
