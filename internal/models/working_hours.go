package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours is one shift on an ISO weekday (1=Monday ... 7=Sunday).
// Several rows on the same weekday describe a split shift.
type WorkingHours struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;index:idx_working_hours_staff_day" json:"staff_id"`

	Weekday int `gorm:"not null;index:idx_working_hours_staff_day" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
