package booking

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

// Transition moves b to target and stamps the matching timestamp.
func Transition(b *models.Booking, target Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), target); err != nil {
		return err
	}

	b.Status = string(target)
	switch target {
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}
	return nil
}

// Move changes the interval of a live booking.
func Move(b *models.Booking, start, end time.Time) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}

	b.StartTime = start.UTC()
	b.EndTime = end.UTC()
	return nil
}
