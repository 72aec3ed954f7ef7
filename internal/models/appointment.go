package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestUserID marks a booking that is not linked to a registered account.
const GuestUserID = "guest"

type Address struct {
	Street string `gorm:"size:255" json:"street"`
	City   string `gorm:"size:100" json:"city"`
	State  string `gorm:"size:50" json:"state"`
	Zip    string `gorm:"size:20" json:"zip"`
}

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID    string `gorm:"size:64;index;not null" json:"user_id"`
	UserEmail string `gorm:"size:255" json:"user_email"`
	UserName  string `gorm:"size:100" json:"user_name"`
	UserPhone string `gorm:"size:30" json:"user_phone"`

	Service  string   `gorm:"size:100" json:"service"`
	Services []string `gorm:"serializer:json;type:text" json:"services"`
	Category string   `gorm:"size:50" json:"category"`

	Date     string `gorm:"size:10;not null;index:idx_appointments_slot" json:"date"`
	TimeSlot string `gorm:"size:16;not null;index:idx_appointments_slot" json:"time_slot"`

	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Status string `gorm:"size:20;not null;index" json:"status"`

	EstimatedPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"estimated_price"`
	FinalPrice     decimal.Decimal `gorm:"type:numeric(10,2)" json:"final_price"`
	PaymentStatus  string          `gorm:"size:20" json:"payment_status"`
	Notes          string          `gorm:"size:500" json:"notes"`

	EmailReminders  bool `gorm:"column:email_reminders" json:"email_reminders"`
	Reminder24hSent bool `gorm:"column:reminder_24h_sent" json:"reminder_24h_sent"`
	Reminder2hSent  bool `gorm:"column:reminder_2h_sent" json:"reminder_2h_sent"`
	ReminderSent    bool `gorm:"column:reminder_sent" json:"reminder_sent"`
	FollowUpSent    bool `gorm:"column:follow_up_sent" json:"follow_up_sent"`

	RescheduleCount int `json:"reschedule_count"`

	CalendarEventID   string     `gorm:"size:255" json:"calendar_event_id,omitempty"`
	CalendarEventURL  string     `gorm:"size:500" json:"calendar_event_url,omitempty"`
	CalendarSyncError string     `gorm:"size:500" json:"calendar_sync_error,omitempty"`
	LastSyncAttempt   *time.Time `json:"last_sync_attempt,omitempty"`

	CancelledBy string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) IsGuest() bool {
	return a.UserID == "" || a.UserID == GuestUserID
}

// ServiceLabel joins the service list, falling back to the single service field.
func (a *Appointment) ServiceLabel() string {
	if len(a.Services) == 0 {
		return a.Service
	}
	out := a.Services[0]
	for _, s := range a.Services[1:] {
		out += ", " + s
	}
	return out
}
