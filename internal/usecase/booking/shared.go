package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Idempotency guards create retries. Implemented by idempotency.Store.
type Idempotency interface {
	Reserve(ctx context.Context, key string) (uuid.UUID, bool, error)
	Complete(ctx context.Context, key string, bookingID uuid.UUID) error
	Release(ctx context.Context, key string) error
}

// validateWindow runs before any store access.
func validateWindow(start, end, now time.Time) error {
	if err := domain.ValidateInterval(start, end); err != nil {
		return err
	}
	if start.Before(now) {
		return domain.Validation("start_in_past", "start time is in the past")
	}
	return nil
}

// mutateBooking reloads a booking under its staff lock, applies fn and
// saves the result.
func mutateBooking(
	ctx context.Context,
	store domain.Store,
	bookingID uuid.UUID,
	fn func(tx domain.Store, b *models.Booking) error,
) (*models.Booking, error) {

	current, err := store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var out *models.Booking
	err = store.WithStaffLock(ctx, current.StaffID, func(tx domain.Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := fn(tx, b); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func dispatch(d *audit.Dispatcher, actorID *uuid.UUID, action string, b *models.Booking, meta map[string]any) {
	id := b.ID
	d.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "booking",
		EntityID: &id,
		Metadata: meta,
	})
}

func reject(err error) error {
	if k := domain.KindOf(err); k != 0 {
		metrics.IncBookingRejected(k.String())
	}
	return err
}
