// Package app assembles the stores, side-effect channels, use cases and
// scheduler from configuration. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	"github.com/BruksfildServices01/detailing-scheduler/internal/calendar"
	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/detailing-scheduler/internal/db"
	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/infra/memstore"
	infraRepo "github.com/BruksfildServices01/detailing-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
	"github.com/BruksfildServices01/detailing-scheduler/internal/reminder"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/usecase/calendarsync"
	ucNotification "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/notification"
)

type UserStore interface {
	calendarsync.UserStore
	calendar.OwnerStore
}

type AuditStore interface {
	audit.Sink
	ListAuditLogs(ctx context.Context, entityID string, limit int) ([]models.AuditLog, error)
}

// Stores groups every persistence port. One backend serves all of them.
type Stores struct {
	Appointments  domain.Repository
	Reminders     domain.ReminderStore
	Notifications notify.Store
	Users         UserStore
	AuditLogs     AuditStore
}

func MemoryStores(s *memstore.Store) Stores {
	return Stores{
		Appointments:  s,
		Reminders:     s,
		Notifications: s,
		Users:         s,
		AuditLogs:     s,
	}
}

func PostgresStores(dsn string) (Stores, error) {
	db, err := dbpkg.NewDB(dsn)
	if err != nil {
		return Stores{}, err
	}
	return Stores{
		Appointments:  infraRepo.NewAppointmentGormRepository(db),
		Reminders:     infraRepo.NewReminderGormRepository(db),
		Notifications: infraRepo.NewNotificationGormRepository(db),
		Users:         infraRepo.NewUserGormRepository(db),
		AuditLogs:     infraRepo.NewAuditGormRepository(db),
	}, nil
}

// ======================================================
// APP
// ======================================================

type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Location *time.Location

	Stores    Stores
	Audit     *audit.Dispatcher
	Notifier  *notify.Dispatcher
	Owners    *calendar.CachedOwners
	Calendar  *calendar.Adapter
	Scheduler *reminder.Scheduler

	// -------- use cases --------
	CreateAppointment     *ucAppointment.CreateAppointment
	RescheduleAppointment *ucAppointment.RescheduleAppointment
	ChangeStatus          *ucAppointment.ChangeStatus
	GetAvailability       *ucAppointment.GetAvailability
	ListByDate            *ucAppointment.ListAppointmentsByDate
	ListByMonth           *ucAppointment.ListAppointmentsByMonth
	ListByUser            *ucAppointment.ListAppointmentsByUser
	BlockSlot             *ucAppointment.BlockSlot
	UnblockSlot           *ucAppointment.UnblockSlot
	ListBlockedSlots      *ucAppointment.ListBlockedSlots
	Inbox                 *ucNotification.Inbox
	SendNotification      *ucNotification.SendNotification
	CalendarSettings      *calendarsync.Service

	redis *redis.Client
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	var stores Stores
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		stores = MemoryStores(memstore.New())
	default:
		s, err := PostgresStores(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		stores = s
	}
	return Build(cfg, log, stores)
}

// Build wires everything on top of the given stores.
func Build(cfg *config.Config, log zerolog.Logger, stores Stores) (*App, error) {
	a := &App{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
		Location: timezone.Location(cfg.Business.Timezone),
		Stores:   stores,
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	// --------------------------------------------------
	// Side-effect channels
	// --------------------------------------------------
	a.Audit = audit.NewDispatcher(audit.NewRecorder(stores.AuditLogs), log)

	mailer, err := newEmailSender(cfg.Email, log)
	if err != nil {
		return nil, err
	}
	renderer, err := notify.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	a.Notifier = notify.NewDispatcher(
		stores.Notifications,
		notify.NewRateLimitedSender(mailer, cfg.Email.RatePerSecond, cfg.Email.Burst),
		renderer,
		notify.DispatcherConfig{
			From:           notify.Sender{Address: cfg.Email.FromAddress, Name: cfg.Email.FromName},
			SupportAddress: cfg.Email.SupportAddr,
		},
		a.Metrics,
		log,
	)

	a.Owners = calendar.NewCachedOwners(stores.Users, cfg.Calendar.OwnerCacheTTL)
	a.Calendar = calendar.NewAdapter(
		a.Owners,
		calendar.NewGoogleClientFactory(cfg.Calendar.GoogleClientID, cfg.Calendar.GoogleClientSecret),
		calendar.AdapterConfig{Location: a.Location, EventDuration: cfg.Calendar.EventDuration},
		a.Metrics,
		log,
	)

	// --------------------------------------------------
	// Use cases
	// --------------------------------------------------
	slots, err := domain.NormalizeSlots(cfg.Business.Slots)
	if err != nil {
		return nil, fmt.Errorf("business slots: %w", err)
	}
	rules := ucAppointment.BookingRules{
		Policy: domain.CapacityPolicy{
			Slots:     slots,
			Capacity:  cfg.Business.SlotCapacity,
			ClosedDay: time.Weekday(cfg.Business.ClosedDay),
		},
		Location:          a.Location,
		VerifyEmailDomain: cfg.Business.VerifyEmailDomain,
		Clock:             timezone.ClockIn(a.Location),
	}
	fx := ucAppointment.SideEffects{
		Calendar: a.Calendar,
		Notifier: a.Notifier,
		Audit:    a.Audit,
		Metrics:  a.Metrics,
		Log:      log,
	}
	repo := stores.Appointments

	a.CreateAppointment = ucAppointment.NewCreateAppointment(repo, rules, fx)
	a.RescheduleAppointment = ucAppointment.NewRescheduleAppointment(repo, rules, fx)
	a.ChangeStatus = ucAppointment.NewChangeStatus(repo, rules, fx)
	a.GetAvailability = ucAppointment.NewGetAvailability(repo, rules)
	a.ListByDate = ucAppointment.NewListAppointmentsByDate(repo, rules)
	a.ListByMonth = ucAppointment.NewListAppointmentsByMonth(repo, rules)
	a.ListByUser = ucAppointment.NewListAppointmentsByUser(repo)
	a.BlockSlot = ucAppointment.NewBlockSlot(repo, rules, a.Audit)
	a.UnblockSlot = ucAppointment.NewUnblockSlot(repo, a.Audit)
	a.ListBlockedSlots = ucAppointment.NewListBlockedSlots(repo, rules)
	a.Inbox = ucNotification.NewInbox(stores.Notifications)
	a.SendNotification = ucNotification.NewSendNotification(repo, a.Notifier)
	a.CalendarSettings = calendarsync.NewService(stores.Users, a.Owners, a.Audit)

	// --------------------------------------------------
	// Scheduler
	// --------------------------------------------------
	var locker reminder.Locker = reminder.NopLocker{}
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		locker = reminder.NewRedisLocker(a.redis, "")
	}

	a.Scheduler = reminder.NewScheduler(reminder.Config{
		Location:   a.Location,
		RunTimeout: cfg.Jobs.RunTimeout,
		LockTTL:    cfg.Jobs.LockTTL,
	}, locker, a.Metrics, log)
	reminder.RegisterDefaults(a.Scheduler, reminder.Env{
		Store:    stores.Reminders,
		Notifier: a.Notifier,
		Location: a.Location,
		Metrics:  a.Metrics,
		Log:      log,
	})

	return a, nil
}

// Ping checks the optional redis connection.
func (a *App) Ping(ctx context.Context) error {
	if a.redis == nil {
		return nil
	}
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close flushes queued audit rows and releases connections.
func (a *App) Close() {
	a.Audit.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func newEmailSender(cfg config.EmailConfig, log zerolog.Logger) (notify.EmailSender, error) {
	switch cfg.Provider {
	case "", "stub":
		return notify.NewStubEmailSender(log), nil
	case "ses":
		return notify.NewSESSender(notify.NewSESClient(notify.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("email: SENDGRID_API_KEY is required")
		}
		return notify.NewSendGridSender(cfg.SendGridAPIKey), nil
	case "smtp":
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}), nil
	default:
		return nil, fmt.Errorf("email: unknown provider %q", cfg.Provider)
	}
}
