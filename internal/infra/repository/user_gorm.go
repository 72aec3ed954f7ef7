package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// GetUser returns nil, nil for unknown ids; accounts live in the identity
// provider and are only mirrored here once they change a setting.
func (r *UserGormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) SaveUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// FindCalendarOwner picks the oldest admin with sync enabled and a stored
// refresh token.
func (r *UserGormRepository) FindCalendarOwner(ctx context.Context) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND calendar_sync_enabled = ? AND calendar_refresh_token <> ''", models.RoleAdmin, true).
		Order("created_at ASC").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// -------- Audit --------

type AuditGormRepository struct {
	db *gorm.DB
}

func NewAuditGormRepository(db *gorm.DB) *AuditGormRepository {
	return &AuditGormRepository{db: db}
}

func (r *AuditGormRepository) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AuditGormRepository) ListAuditLogs(ctx context.Context, entityID string, limit int) ([]models.AuditLog, error) {
	tx := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if entityID != "" {
		tx = tx.Where("entity_id = ?", entityID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var out []models.AuditLog
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
