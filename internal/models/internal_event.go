package models

import (
	"time"

	"github.com/google/uuid"
)

// InternalEvent blocks a staff member's time: vacation, sick leave, meetings.
type InternalEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;index:idx_internal_events_staff_time" json:"staff_id"`

	Category  string    `gorm:"size:20;not null" json:"category"`
	StartTime time.Time `gorm:"type:timestamptz;not null;index:idx_internal_events_staff_time" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamptz;not null" json:"end_time"`
	Note      string    `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
