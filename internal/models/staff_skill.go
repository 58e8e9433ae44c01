package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffSkill links a staff member to a variant they perform, optionally
// at their own price or duration.
type StaffSkill struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_skill" json:"staff_id"`
	ServiceVariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_skill" json:"service_variant_id"`

	CustomPriceCents      *int64 `json:"custom_price_cents"`
	CustomDurationMinutes *int   `json:"custom_duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
