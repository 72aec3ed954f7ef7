package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type memSink struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func (m *memSink) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *l)
	return nil
}

func TestDispatcher_WritesQueuedEventsOnClose(t *testing.T) {
	sink := &memSink{}
	d := NewDispatcher(NewRecorder(sink), zerolog.Nop())

	d.Dispatch(Event{
		ActorID:  "admin-1",
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: "ap-1",
		Metadata: map[string]string{"from": "pending", "to": "approved"},
	})
	d.Close()

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	assert.Equal(t, "admin-1", row.ActorID)
	assert.Equal(t, "ap-1", row.EntityID)
	assert.JSONEq(t, `{"from":"pending","to":"approved"}`, row.Metadata)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestDispatcher_NilIsSafe(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "noop"})
	d.Close()
}
