package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/pricing"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	CustomerID       uuid.UUID
	LocationID       uuid.UUID
	StaffID          uuid.UUID
	ServiceVariantID uuid.UUID

	StartTime time.Time
	// EndTime may be zero; the end is then derived from the service
	// duration (or the staff member's custom duration).
	EndTime time.Time

	CustomerNote   string
	IdempotencyKey string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	store     domain.Store
	evaluator *availability.Evaluator
	pricing   *pricing.Resolver
	idem      Idempotency
	audit     *audit.Dispatcher
	clock     timezone.Clock
	log       zerolog.Logger
}

func NewCreateBooking(
	store domain.Store,
	evaluator *availability.Evaluator,
	pricing *pricing.Resolver,
	idem Idempotency,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	log zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		store:     store,
		evaluator: evaluator,
		pricing:   pricing,
		idem:      idem,
		audit:     audit,
		clock:     clock,
		log:       log.With().Str("component", "create_booking").Logger(),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Input validation (no store access)
	// --------------------------------------------------
	if err := validateCreate(in, uc.clock.Now()); err != nil {
		return nil, reject(err)
	}
	start := in.StartTime.UTC()

	// --------------------------------------------------
	// 2. Idempotent replay
	// --------------------------------------------------
	var idemKey string
	if in.IdempotencyKey != "" && uc.idem != nil {
		idemKey = in.CustomerID.String() + ":" + in.IdempotencyKey

		existing, done, err := uc.idem.Reserve(ctx, idemKey)
		if err != nil {
			return nil, reject(err)
		}
		if done {
			return uc.store.GetBooking(ctx, existing)
		}
	}

	b, err := uc.commit(ctx, in, start)
	if err != nil {
		if idemKey != "" {
			_ = uc.idem.Release(context.WithoutCancel(ctx), idemKey)
		}
		if domain.IsConflict(err) {
			uc.audit.Dispatch(audit.Event{
				ActorID:  &in.CustomerID,
				Action:   "booking_conflict",
				Entity:   "staff",
				EntityID: &in.StaffID,
				Metadata: map[string]any{"start": start, "reason": err.Error()},
			})
		}
		return nil, reject(err)
	}

	if idemKey != "" {
		uc.completeKey(context.WithoutCancel(ctx), idemKey, b.ID)
	}

	// --------------------------------------------------
	// 6. Audit + metrics
	// --------------------------------------------------
	metrics.IncBookingCreated()
	dispatch(uc.audit, &in.CustomerID, "booking_created", b, map[string]any{
		"staff_id":          b.StaffID,
		"start_time":        b.StartTime,
		"end_time":          b.EndTime,
		"total_price_cents": b.TotalPriceCents,
	})

	return b, nil
}

func (uc *CreateBooking) commit(
	ctx context.Context,
	in CreateBookingInput,
	start time.Time,
) (*models.Booking, error) {

	end := in.EndTime.UTC()
	if in.EndTime.IsZero() {
		d, err := durationFor(ctx, uc.store, in.StaffID, in.ServiceVariantID)
		if err != nil {
			return nil, err
		}
		end = start.Add(d)
	}

	var created *models.Booking

	err := uc.store.WithStaffLock(ctx, in.StaffID, func(tx domain.Store) error {

		// --------------------------------------------------
		// 3. Staff belongs to the location
		// --------------------------------------------------
		staff, err := tx.GetStaff(ctx, in.StaffID)
		if err != nil {
			return err
		}
		locationID := in.LocationID
		if locationID == uuid.Nil {
			locationID = staff.LocationID
		}
		if staff.LocationID != locationID {
			return domain.Validation("staff_location_mismatch", "staff member does not work at this location")
		}

		// --------------------------------------------------
		// 4. Availability
		// --------------------------------------------------
		verdict, err := uc.evaluator.EvaluateWith(ctx, tx, in.StaffID, start, end, nil)
		if err != nil {
			return err
		}
		if !verdict.Available {
			return domain.Conflict("booking_unavailable", verdict.Reason)
		}

		// --------------------------------------------------
		// 5. Price + persist
		// --------------------------------------------------
		price, err := uc.pricing.ResolveWith(ctx, tx, in.StaffID, in.ServiceVariantID)
		if err != nil {
			return err
		}
		if price <= 0 {
			return domain.Validation("invalid_price", "resolved price must be positive")
		}

		b := &models.Booking{
			ID:               uuid.New(),
			CustomerID:       in.CustomerID,
			LocationID:       locationID,
			StaffID:          in.StaffID,
			ServiceVariantID: in.ServiceVariantID,
			StartTime:        start,
			EndTime:          end,
			Status:           string(domain.InitialStatus()),
			TotalPriceCents:  price,
			CustomerNote:     in.CustomerNote,
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func validateCreate(in CreateBookingInput, now time.Time) error {
	if in.CustomerID == uuid.Nil || in.StaffID == uuid.Nil || in.ServiceVariantID == uuid.Nil {
		return domain.Validation("invalid_request", "customer, staff and service variant are required")
	}
	if in.StartTime.IsZero() {
		return domain.Validation("invalid_interval", "start time is required")
	}
	if in.EndTime.IsZero() {
		if in.StartTime.Before(now) {
			return domain.Validation("start_in_past", "start time is in the past")
		}
		return nil
	}
	return validateWindow(in.StartTime.UTC(), in.EndTime.UTC(), now)
}

// durationFor prefers the staff member's custom duration.
func durationFor(
	ctx context.Context,
	store domain.Store,
	staffID uuid.UUID,
	variantID uuid.UUID,
) (time.Duration, error) {

	variant, err := store.GetServiceVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	minutes := variant.DurationMinutes

	skill, err := store.GetStaffSkill(ctx, staffID, variantID)
	if err != nil {
		return 0, err
	}
	if skill != nil && skill.CustomDurationMinutes != nil {
		minutes = *skill.CustomDurationMinutes
	}

	if minutes <= 0 {
		return 0, domain.Validation("invalid_duration", "service variant has no duration")
	}
	return time.Duration(minutes) * time.Minute, nil
}

// completeKey records the booking against its idempotency key. When that
// fails the key is released instead, so a retry is not left waiting on a
// pending reservation until it expires.
func (uc *CreateBooking) completeKey(ctx context.Context, key string, bookingID uuid.UUID) {
	err := uc.idem.Complete(ctx, key, bookingID)
	if err == nil {
		return
	}
	uc.log.Warn().Err(err).Str("booking_id", bookingID.String()).Msg("idempotency complete failed, releasing key")

	if err := uc.idem.Release(ctx, key); err != nil {
		uc.log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("idempotency release failed")
	}
}
