package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a bookable person. Its row doubles as the write lock for
// that person's calendar.
type Staff struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"location_id"`
	Location   Location  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100" json:"email"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }
