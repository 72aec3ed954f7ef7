package models

import "time"

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User carries only what the scheduler needs about an account; credentials
// and profiles live in the identity provider.
type User struct {
	ID    string `gorm:"primaryKey;size:64" json:"id"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name  string `gorm:"size:100" json:"name"`
	Role  string `gorm:"size:20;not null" json:"role"`

	CalendarSyncEnabled  bool   `json:"calendar_sync_enabled"`
	CalendarID           string `gorm:"size:255" json:"calendar_id"`
	CalendarRefreshToken string `gorm:"size:512" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
