package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type CancelBooking struct {
	store domain.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCancelBooking(
	store domain.Store,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CancelBooking {
	return &CancelBooking{
		store: store,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	actorID *uuid.UUID,
	bookingID uuid.UUID,
) (*models.Booking, error) {

	b, err := mutateBooking(ctx, uc.store, bookingID, func(_ domain.Store, b *models.Booking) error {
		return domain.Cancel(b, uc.clock.Now())
	})
	if err != nil {
		return nil, reject(err)
	}

	metrics.IncBookingStatus(b.Status)
	dispatch(uc.audit, actorID, "booking_cancelled", b, nil)

	return b, nil
}
