package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Dispatcher writes audit rows off the request path. A nil *Dispatcher
// drops every event.
type Dispatcher struct {
	recorder *Recorder
	queue    chan Event
	log      zerolog.Logger
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(recorder *Recorder, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		queue:    make(chan Event, 100),
		log:      log.With().Str("component", "audit").Logger(),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.recorder.Record(ctx, ev); err != nil {
			d.log.Error().Err(err).
				Str("action", ev.Action).
				Str("entity_id", ev.EntityID).
				Msg("audit write failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// never block the caller
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close waits for queued events to be written. Dispatch must not be called
// after Close.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
