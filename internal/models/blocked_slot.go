package models

import "time"

// BlockedSlot removes a (date, slot) pair from availability regardless of capacity.
type BlockedSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_blocked_slot" json:"date"`
	TimeSlot  string    `gorm:"size:16;not null;uniqueIndex:idx_blocked_slot" json:"time_slot"`
	BlockedBy string    `gorm:"size:64" json:"blocked_by"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
