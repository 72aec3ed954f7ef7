package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
)

var (
	ErrUnknownJob = errors.New("reminder: unknown job")
	ErrJobRunning = errors.New("reminder: job already running")
)

type Config struct {
	Location *time.Location
	// RunTimeout bounds a single job run.
	RunTimeout time.Duration
	// LockTTL should exceed RunTimeout.
	LockTTL time.Duration
}

type entry struct {
	job     Job
	trigger Trigger
	running atomic.Bool
}

// Scheduler fires registered jobs on their triggers. A job never overlaps
// itself: in-process runs are serialised per job and, with a distributed
// Locker, across replicas too.
type Scheduler struct {
	mu      sync.RWMutex
	entries map[string]*entry

	locker  Locker
	cfg     Config
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

func NewScheduler(cfg Config, locker Locker, m *metrics.Metrics, log zerolog.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	if cfg.LockTTL <= cfg.RunTimeout {
		cfg.LockTTL = cfg.RunTimeout + time.Minute
	}
	if locker == nil {
		locker = NopLocker{}
	}

	return &Scheduler{
		entries: make(map[string]*entry),
		locker:  locker,
		cfg:     cfg,
		metrics: m,
		log:     log.With().Str("component", "scheduler").Logger(),
		now:     time.Now,
	}
}

// Register adds job. Registering the same name twice replaces the first.
func (s *Scheduler) Register(job Job, trigger Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[job.Name()] = &entry{job: job, trigger: trigger}
}

func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run blocks until ctx is cancelled, firing each job on its trigger.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			s.loop(ctx, e)
		}(e)
	}

	s.log.Info().Int("jobs", len(entries)).Msg("scheduler started")
	wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

// loop anchors every fire to the previous scheduled one, so the time a run
// takes never shifts the schedule. The job sees the scheduled instant as its
// clock, which makes the windows of consecutive runs meet exactly.
func (s *Scheduler) loop(ctx context.Context, e *entry) {
	next := e.trigger.Next(s.now().In(s.cfg.Location))
	for {
		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.run(ctx, e, next); err != nil && !errors.Is(err, ErrJobRunning) {
			s.log.Error().Err(err).Str("job", e.job.Name()).Msg("job run failed")
		}
		next = s.following(e.trigger, next)
	}
}

// following returns the fire after prev. When a run overran later fires, the
// most recent one already due is returned so the job catches up once.
func (s *Scheduler) following(t Trigger, prev time.Time) time.Time {
	now := s.now().In(s.cfg.Location)
	next := t.Next(prev)
	for {
		after := t.Next(next)
		if after.After(now) {
			return next
		}
		next = after
	}
}

// RunNow executes the named job immediately under the same guards as a
// scheduled run.
func (s *Scheduler) RunNow(ctx context.Context, name string) (Report, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, e, s.now().In(s.cfg.Location))
}

func (s *Scheduler) run(ctx context.Context, e *entry, at time.Time) (Report, error) {
	name := e.job.Name()

	if !e.running.CompareAndSwap(false, true) {
		s.metrics.JobSkipped(name)
		return Report{}, ErrJobRunning
	}
	defer e.running.Store(false)

	release, ok, err := s.locker.Acquire(ctx, "job:"+name, s.cfg.LockTTL)
	if err != nil {
		s.metrics.ObserveJob(name, time.Now(), err)
		return Report{}, fmt.Errorf("acquire lock for %s: %w", name, err)
	}
	if !ok {
		s.metrics.JobSkipped(name)
		s.log.Debug().Str("job", name).Msg("lock held elsewhere, skipping run")
		return Report{}, ErrJobRunning
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	started := time.Now()
	rep, err := e.job.Run(runCtx, at.In(s.cfg.Location))
	s.metrics.ObserveJob(name, started, err)

	evt := s.log.Info()
	if err != nil {
		evt = s.log.Error().Err(err)
	}
	evt.Str("job", name).
		Int("candidates", rep.Candidates).
		Int("notified", rep.Notified).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Int64("cleared", rep.Cleared).
		Dur("took", time.Since(started)).
		Msg("job finished")

	return rep, err
}
