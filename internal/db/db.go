package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

// NewDB opens Postgres and migrates every model. TranslateError is on so
// unique violations surface as gorm.ErrDuplicatedKey.
func NewDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.BlockedSlot{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// orders the calendar owner lookup without scanning every user
	db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_calendar_owner
        ON users (created_at)
        WHERE role = 'admin' AND calendar_sync_enabled
    `)

	return db, nil
}
