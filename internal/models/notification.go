package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type NotificationMetadata struct {
	AppointmentID  string `json:"appointment_id"`
	Kind           string `json:"kind"`
	Service        string `json:"service,omitempty"`
	Date           string `json:"date,omitempty"`
	TimeSlot       string `json:"time_slot,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	CurrentStatus  string `json:"current_status,omitempty"`
}

type Notification struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:64;not null;index:idx_notifications_user_read" json:"user_id"`

	Title   string           `gorm:"size:150;not null" json:"title"`
	Message string           `gorm:"size:1000" json:"message"`
	Type    NotificationType `gorm:"size:20;not null" json:"type"`
	Read    bool             `gorm:"index:idx_notifications_user_read" json:"read"`

	Metadata NotificationMetadata `gorm:"serializer:json;type:text" json:"metadata"`

	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
