package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) ListNotifications(
	ctx context.Context,
	userID string,
	read *bool,
) ([]models.Notification, error) {

	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if read != nil {
		tx = tx.Where("read = ?", *read)
	}

	var out []models.Notification
	if err := tx.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NotificationGormRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationGormRepository) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notify.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationGormRepository) SetRead(ctx context.Context, id string, read bool) error {
	var readAt *time.Time
	if read {
		now := time.Now()
		readAt = &now
	}

	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"read": read, "read_at": readAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notify.ErrNotFound
	}
	return nil
}

func (r *NotificationGormRepository) DeleteNotification(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notify.ErrNotFound
	}
	return nil
}

var _ notify.Store = (*NotificationGormRepository)(nil)
