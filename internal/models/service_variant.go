package models

import (
	"time"

	"github.com/google/uuid"
)

type ServiceVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index" json:"service_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Description     string `gorm:"size:255" json:"description"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	PriceCents      int64  `gorm:"not null" json:"price_cents"`
	Active          bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
