package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the scheduler and side-channel counters. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	JobRuns              *prometheus.CounterVec
	JobDuration          *prometheus.HistogramVec
	RemindersSent        *prometheus.CounterVec
	NotificationDelivery *prometheus.CounterVec
	CalendarSync         *prometheus.CounterVec
	BookingRejected      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Reminder job runs by outcome",
		}, []string{"job", "outcome"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "detailing",
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Time spent in one reminder job run",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"job"}),
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "scheduler",
			Name:      "reminders_sent_total",
			Help:      "Appointments notified by a reminder job",
		}, []string{"job"}),
		NotificationDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Notification deliveries by channel, kind and outcome",
		}, []string{"channel", "kind", "outcome"}),
		CalendarSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "calendar",
			Name:      "sync_total",
			Help:      "Calendar mirror operations by outcome",
		}, []string{"op", "outcome"}),
		BookingRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detailing",
			Subsystem: "booking",
			Name:      "rejected_total",
			Help:      "Booking and reschedule attempts rejected by capacity rules",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.JobRuns,
			m.JobDuration,
			m.RemindersSent,
			m.NotificationDelivery,
			m.CalendarSync,
			m.BookingRejected,
		)
	}
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveJob(job string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, outcome(err)).Inc()
	m.JobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}

func (m *Metrics) JobSkipped(job string) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, "skipped").Inc()
}

func (m *Metrics) ReminderSent(job string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(job).Inc()
}

func (m *Metrics) Delivery(channel, kind string, err error) {
	if m == nil {
		return
	}
	m.NotificationDelivery.WithLabelValues(channel, kind, outcome(err)).Inc()
}

func (m *Metrics) Calendar(op string, err error) {
	if m == nil {
		return
	}
	m.CalendarSync.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.BookingRejected.WithLabelValues(reason).Inc()
}
