package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	evaluator       *availability.Evaluator
	slots           *availability.SlotGenerator
	defaultInterval int
}

func NewAvailabilityHandler(
	evaluator *availability.Evaluator,
	slots *availability.SlotGenerator,
	defaultInterval int,
) *AvailabilityHandler {
	if defaultInterval <= 0 {
		defaultInterval = int(availability.DefaultInterval.Minutes())
	}
	return &AvailabilityHandler{
		evaluator:       evaluator,
		slots:           slots,
		defaultInterval: defaultInterval,
	}
}

// ======================================================
// CHECK
// ======================================================

// Check answers GET /api/availability?staff_id&start&end.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	staffID, err := uuidQuery(c, "staff_id", true)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	start, err := instantQuery(c, "start")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	end, err := instantQuery(c, "end")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	verdict, err := h.evaluator.Evaluate(c.Request.Context(), *staffID, start, end)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, verdict)
}

// ======================================================
// SLOTS
// ======================================================

// StaffSlots answers GET /api/staff/:id/slots?date&duration&interval.
func (h *AvailabilityHandler) StaffSlots(c *gin.Context) {
	staffID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	duration, err := minutesQuery(c, "duration", 0, 5, 8*60)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if duration == 0 {
		httperr.Unprocessable(c, "missing_duration", "duration is required")
		return
	}
	interval, err := minutesQuery(c, "interval", h.defaultInterval, 15, 120)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	slots, err := h.slots.Generate(c.Request.Context(), staffID, date, duration, interval)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	metrics.ObserveSlots(len(slots))
	httpresp.List(c, slots)
}

// LocationSlots answers GET /api/locations/:id/slots with slots pooled
// across the location's staff.
func (h *AvailabilityHandler) LocationSlots(c *gin.Context) {
	locationID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	variantID, err := uuidQuery(c, "service_variant_id", true)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	staffID, err := uuidQuery(c, "staff_id", false)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	interval, err := minutesQuery(c, "interval", h.defaultInterval, 15, 120)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	pooled, err := h.slots.GeneratePooled(c.Request.Context(), availability.PooledInput{
		LocationID:       locationID,
		ServiceVariantID: *variantID,
		StaffID:          staffID,
		Date:             date,
		Interval:         interval,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	metrics.ObserveSlots(len(pooled))
	httpresp.List(c, pooled)
}
