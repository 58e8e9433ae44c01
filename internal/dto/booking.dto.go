package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type BookingDTO struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	LocationID       uuid.UUID  `json:"location_id"`
	StaffID          uuid.UUID  `json:"staff_id"`
	ServiceVariantID uuid.UUID  `json:"service_variant_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          time.Time  `json:"end_time"`
	Status           string     `json:"status"`
	TotalPriceCents  int64      `json:"total_price_cents"`
	CustomerNote     string     `json:"customer_note,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func FromBooking(b *models.Booking) BookingDTO {
	return BookingDTO{
		ID:               b.ID,
		CustomerID:       b.CustomerID,
		LocationID:       b.LocationID,
		StaffID:          b.StaffID,
		ServiceVariantID: b.ServiceVariantID,
		StartTime:        b.StartTime.UTC(),
		EndTime:          b.EndTime.UTC(),
		Status:           b.Status,
		TotalPriceCents:  b.TotalPriceCents,
		CustomerNote:     b.CustomerNote,
		CancelledAt:      b.CancelledAt,
		CompletedAt:      b.CompletedAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func FromBookings(bs []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bs))
	for i := range bs {
		out = append(out, FromBooking(&bs[i]))
	}
	return out
}
