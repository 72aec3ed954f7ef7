package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// ReminderGormRepository backs the reminder jobs. Flag writes use
// UpdateColumn so updated_at, which the follow-up window falls back on,
// is left alone.
type ReminderGormRepository struct {
	db *gorm.DB
}

func NewReminderGormRepository(db *gorm.DB) *ReminderGormRepository {
	return &ReminderGormRepository{db: db}
}

func (r *ReminderGormRepository) ListReminderCandidates(
	ctx context.Context,
	q domain.CandidateQuery,
) ([]models.Appointment, error) {

	if !q.Unset.Valid() {
		return nil, fmt.Errorf("repository: unknown reminder flag %q", q.Unset)
	}

	statuses := make([]string, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, string(s))
	}

	tx := r.db.WithContext(ctx).
		Where("status IN ? AND date >= ? AND date <= ?", statuses, q.FromDate, q.ToDate).
		Where(string(q.Unset)+" = ?", false)
	if q.OptedIn {
		tx = tx.Where("email_reminders = ?", true)
	}

	var apps []models.Appointment
	if err := tx.Order("date ASC, time_slot ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ReminderGormRepository) ClaimFlag(
	ctx context.Context,
	id string,
	flag domain.ReminderFlag,
) (bool, error) {

	if !flag.Valid() {
		return false, fmt.Errorf("repository: unknown reminder flag %q", flag)
	}

	col := string(flag)
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND "+col+" = ?", id, false).
		UpdateColumn(col, true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ReminderGormRepository) ReleaseFlag(
	ctx context.Context,
	id string,
	flag domain.ReminderFlag,
) error {

	if !flag.Valid() {
		return fmt.Errorf("repository: unknown reminder flag %q", flag)
	}

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		UpdateColumn(string(flag), false).Error
}

func (r *ReminderGormRepository) ListFollowUpCandidates(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND follow_up_sent = ?", string(domain.StatusCompleted), false).
		Where("COALESCE(completed_at, updated_at) >= ? AND COALESCE(completed_at, updated_at) < ?", from, to).
		Order("COALESCE(completed_at, updated_at) ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ReminderGormRepository) ClearTimedFlagsBefore(
	ctx context.Context,
	date string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date < ? AND (reminder_24h_sent = ? OR reminder_2h_sent = ?)", date, true, true).
		UpdateColumns(map[string]any{
			"reminder_24h_sent": false,
			"reminder_2h_sent":  false,
		})
	return res.RowsAffected, res.Error
}

var _ domain.ReminderStore = (*ReminderGormRepository)(nil)
