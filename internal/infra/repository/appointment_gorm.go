package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// releasedStatuses never count against slot capacity.
var releasedStatuses = []string{
	string(domain.StatusCancelled),
	string(domain.StatusRejected),
}

// --------------------------------------------------
// Guarded writes
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateWithinCapacity(
	ctx context.Context,
	ap *models.Appointment,
	guard domain.SlotGuard,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSlot(tx, ap.Date, ap.TimeSlot); err != nil {
			return err
		}
		if err := assertSlotOpen(tx, ap.Date, ap.TimeSlot, "", guard); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleWithinCapacity(
	ctx context.Context,
	ap *models.Appointment,
	guard domain.SlotGuard,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSlot(tx, ap.Date, ap.TimeSlot); err != nil {
			return err
		}
		if err := assertSlotOpen(tx, ap.Date, ap.TimeSlot, ap.ID, guard); err != nil {
			return err
		}

		ap.UpdatedAt = time.Now()
		res := tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Updates(map[string]any{
				"date":              ap.Date,
				"time_slot":         ap.TimeSlot,
				"reschedule_count":  ap.RescheduleCount,
				"reminder_24h_sent": ap.Reminder24hSent,
				"reminder_2h_sent":  ap.Reminder2hSent,
				"reminder_sent":     ap.ReminderSent,
				"updated_at":        ap.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// lockSlot serialises writers of one (date, slot) until the transaction ends.
func lockSlot(tx *gorm.DB, date, slot string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "slot:"+date+"|"+slot).Error
}

func assertSlotOpen(
	tx *gorm.DB,
	date string,
	slot string,
	excludeID string,
	guard domain.SlotGuard,
) error {

	var blocked int64
	if err := tx.Model(&models.BlockedSlot{}).
		Where("date = ? AND time_slot = ?", date, slot).
		Count(&blocked).Error; err != nil {
		return err
	}
	if blocked > 0 {
		return httperr.ErrBusiness("slot_blocked")
	}

	q := tx.Model(&models.Appointment{}).
		Where("date = ? AND time_slot = ? AND status NOT IN ?", date, slot, releasedStatuses)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var booked int64
	if err := q.Count(&booked).Error; err != nil {
		return err
	}
	if booked >= int64(guard.Capacity) {
		return httperr.ErrBusiness("slot_full")
	}
	return nil
}

// --------------------------------------------------
// State changes
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// lifecycleColumns are written by UpdateAppointment. Calendar state and the
// reminder flags have their own narrow writers, so a loaded copy never puts
// back a flag a reminder job claimed in the meantime.
var lifecycleColumns = []string{
	"status",
	"cancelled_by",
	"cancelled_at",
	"completed_at",
	"final_price",
	"payment_status",
	"notes",
	"updated_at",
}

// flagResets are the reminder flags cleared when ap enters its current
// status. Both statuses are terminal, so the reset runs once.
func flagResets(ap *models.Appointment) map[string]any {
	switch domain.Status(ap.Status) {
	case domain.StatusCancelled:
		return map[string]any{"reminder_24h_sent": false, "reminder_2h_sent": false}
	case domain.StatusCompleted:
		return map[string]any{"follow_up_sent": false}
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(ap).
			Select(lifecycleColumns).
			Updates(ap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		resets := flagResets(ap)
		if len(resets) == 0 {
			return nil
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			UpdateColumns(resets).Error
	})
}

func (r *AppointmentGormRepository) UpdateCalendarState(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		UpdateColumns(map[string]any{
			"calendar_event_id":   ap.CalendarEventID,
			"calendar_event_url":  ap.CalendarEventURL,
			"calendar_sync_error": ap.CalendarSyncError,
			"last_sync_attempt":   ap.LastSyncAttempt,
		}).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	from string,
	to string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, time_slot ASC, created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForUser(
	ctx context.Context,
	userID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, time_slot ASC, created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlockedSlots(
	ctx context.Context,
	from string,
	to string,
) ([]models.BlockedSlot, error) {

	var out []models.BlockedSlot
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, time_slot ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) CreateBlockedSlot(
	ctx context.Context,
	b *models.BlockedSlot,
) error {

	err := r.db.WithContext(ctx).Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrBusiness("slot_already_blocked")
	}
	return err
}

func (r *AppointmentGormRepository) DeleteBlockedSlot(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.BlockedSlot{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
