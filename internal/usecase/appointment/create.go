package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
	"github.com/BruksfildServices01/detailing-scheduler/internal/timezone"
	"github.com/BruksfildServices01/detailing-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	// UserID is empty for guest bookings.
	UserID    string
	UserEmail string
	UserName  string
	UserPhone string

	Service  string
	Services []string
	Category string

	Date     string
	TimeSlot string

	Address        models.Address
	EstimatedPrice decimal.Decimal
	Notes          string
	EmailReminders bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	rules BookingRules
	fx    SideEffects
}

func NewCreateAppointment(
	repo domain.Repository,
	rules BookingRules,
	fx SideEffects,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		rules: rules,
		fx:    fx,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Date / slot in the business timezone
	// --------------------------------------------------
	day, err := domain.ParseDate(in.Date, uc.rules.location())
	if err != nil {
		return nil, err
	}
	if day.Before(timezone.StartOfDay(uc.rules.now())) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	slot, err := uc.rules.Policy.Slot(in.TimeSlot)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Customer
	// --------------------------------------------------
	email := strings.TrimSpace(in.UserEmail)
	if !validators.IsEmailSyntaxValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}
	if uc.rules.VerifyEmailDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	services := cleanServices(in.Services)
	service := strings.TrimSpace(in.Service)
	if service == "" && len(services) > 0 {
		service = services[0]
	}
	if service == "" {
		return nil, httperr.ErrBusiness("service_required")
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = models.GuestUserID
	}

	// --------------------------------------------------
	// Capacity pre-check (repeated under lock on write)
	// --------------------------------------------------
	if err := checkBookable(ctx, uc.repo, uc.rules.Policy, day, slot, ""); err != nil {
		countRejection(uc.fx.Metrics, err)
		return nil, err
	}

	ap := &models.Appointment{
		ID:             uuid.NewString(),
		UserID:         userID,
		UserEmail:      email,
		UserName:       strings.TrimSpace(in.UserName),
		UserPhone:      strings.TrimSpace(in.UserPhone),
		Service:        service,
		Services:       services,
		Category:       strings.TrimSpace(in.Category),
		Date:           domain.FormatDate(day),
		TimeSlot:       slot,
		Address:        in.Address,
		Status:         string(domain.InitialStatus()),
		EstimatedPrice: in.EstimatedPrice,
		Notes:          strings.TrimSpace(in.Notes),
		EmailReminders: in.EmailReminders,
	}

	if err := uc.repo.CreateWithinCapacity(ctx, ap, uc.rules.guard()); err != nil {
		countRejection(uc.fx.Metrics, err)
		return nil, err
	}

	// --------------------------------------------------
	// Side effects (best effort)
	// --------------------------------------------------
	uc.fx.sendNotification(ctx, notify.KindCreated, ap, "")
	uc.fx.syncCalendar(ctx, uc.repo, ap, uc.calendarCreate)
	uc.fx.recordAudit(userID, "appointment_created", ap, map[string]string{
		"date":      ap.Date,
		"time_slot": ap.TimeSlot,
	})

	return ap, nil
}

func (uc *CreateAppointment) calendarCreate(ctx context.Context, ap *models.Appointment) error {
	return uc.fx.Calendar.Create(ctx, ap)
}

func cleanServices(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
