package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// Sink persists audit rows.
type Sink interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
}

type Recorder struct {
	sink Sink
	now  func() time.Time
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		CreatedAt: r.now(),
	}
	return r.sink.CreateAuditLog(ctx, &row)
}
