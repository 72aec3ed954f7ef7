package appointment

import (
	"context"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// SlotGuard carries the limits re-checked inside a guarded write.
type SlotGuard struct {
	Capacity int
}

type Repository interface {
	// -------- Appointment (guarded writes) --------

	// CreateWithinCapacity persists ap only if, at write time, the slot is not
	// blocked and holds fewer than guard.Capacity occupying appointments.
	CreateWithinCapacity(
		ctx context.Context,
		ap *models.Appointment,
		guard SlotGuard,
	) error

	// RescheduleWithinCapacity persists the new date/slot of ap under the same
	// guard, ignoring ap itself in the count.
	RescheduleWithinCapacity(
		ctx context.Context,
		ap *models.Appointment,
		guard SlotGuard,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateCalendarState(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------

	// ListAppointmentsForPeriod returns appointments with from <= date < to.
	ListAppointmentsForPeriod(
		ctx context.Context,
		from string,
		to string,
	) ([]models.Appointment, error)

	ListAppointmentsForUser(
		ctx context.Context,
		userID string,
	) ([]models.Appointment, error)

	// -------- Blocked slots --------
	ListBlockedSlots(
		ctx context.Context,
		from string,
		to string,
	) ([]models.BlockedSlot, error)

	CreateBlockedSlot(
		ctx context.Context,
		b *models.BlockedSlot,
	) error

	DeleteBlockedSlot(
		ctx context.Context,
		id uint,
	) error
}
