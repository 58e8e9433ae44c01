package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	LocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"location_id"`

	StaffID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_staff_time" json:"staff_id"`
	Staff   Staff     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceVariantID uuid.UUID      `gorm:"type:uuid;not null" json:"service_variant_id"`
	ServiceVariant   ServiceVariant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	StartTime time.Time `gorm:"type:timestamptz;not null;index:idx_bookings_staff_time" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamptz;not null" json:"end_time"`

	Status          string `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalPriceCents int64  `gorm:"not null" json:"total_price_cents"`

	CustomerNote string     `gorm:"size:500" json:"customer_note"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
