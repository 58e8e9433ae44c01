package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/dto"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     *ucBooking.CreateBooking
	reschedule *ucBooking.RescheduleBooking
	cancel     *ucBooking.CancelBooking
	setStatus  *ucBooking.SetBookingStatus
	remove     *ucBooking.DeleteBooking
	list       *ucBooking.ListBookings
	clock      timezone.Clock
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	reschedule *ucBooking.RescheduleBooking,
	cancel *ucBooking.CancelBooking,
	setStatus *ucBooking.SetBookingStatus,
	remove *ucBooking.DeleteBooking,
	list *ucBooking.ListBookings,
	clock timezone.Clock,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
		setStatus:  setStatus,
		remove:     remove,
		list:       list,
		clock:      clock,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	// CustomerID is honoured only for provider and admin callers.
	CustomerID       *uuid.UUID `json:"customer_id"`
	LocationID       uuid.UUID  `json:"location_id"`
	StaffID          uuid.UUID  `json:"staff_id"`
	ServiceVariantID uuid.UUID  `json:"service_variant_id"`
	StartTime        time.Time  `json:"start_time" binding:"required"`
	EndTime          *time.Time `json:"end_time"`
	CustomerNote     string     `json:"customer_note" binding:"max=500"`
}

type RescheduleBookingRequest struct {
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	CustomerNote *string    `json:"customer_note" binding:"omitempty,max=500"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

func isStaffSide(c *gin.Context) bool {
	role := c.GetString(middleware.ContextUserRole)
	return role == middleware.RoleProvider || role == middleware.RoleAdmin
}

// loadOwned fetches a booking the caller may see. Customers only see
// their own; anything else is reported as not found.
func (h *BookingHandler) loadOwned(c *gin.Context) (*models.Booking, bool) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}

	b, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}

	if !isStaffSide(c) {
		userID, _ := middleware.UserID(c)
		if b.CustomerID != userID {
			httperr.NotFound(c, "booking_not_found", "booking "+id.String()+" not found")
			return nil, false
		}
	}
	return b, true
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	key := c.GetHeader(HeaderIdempotencyKey)
	if key != "" && !validators.IsIdempotencyKeyValid(key) {
		httperr.BadRequest(c, "invalid_idempotency_key", "Idempotency-Key must be 1-128 printable characters")
		return
	}

	customerID, _ := middleware.UserID(c)
	if req.CustomerID != nil && isStaffSide(c) {
		customerID = *req.CustomerID
	}

	in := ucBooking.CreateBookingInput{
		CustomerID:       customerID,
		LocationID:       req.LocationID,
		StaffID:          req.StaffID,
		ServiceVariantID: req.ServiceVariantID,
		StartTime:        req.StartTime.UTC(),
		CustomerNote:     req.CustomerNote,
		IdempotencyKey:   key,
	}
	if req.EndTime != nil {
		in.EndTime = req.EndTime.UTC()
	}

	b, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.FromBooking(b))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

// ListMine returns the caller's bookings, optionally filtered by status.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		status = &st
	}

	limit, offset := pageQuery(c)
	bookings, err := h.list.ForCustomer(c.Request.Context(), userID, status, limit, offset)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromBookings(bookings))
}

func (h *BookingHandler) ListForLocation(c *gin.Context) {
	locationID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	limit, offset := pageQuery(c)
	bookings, err := h.list.ForLocation(c.Request.Context(), locationID, limit, offset)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromBookings(bookings))
}

func (h *BookingHandler) ListForStaff(c *gin.Context) {
	staffID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	from, to, err := rangeQuery(c, h.clock.Now())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	bookings, err := h.list.ForStaff(c.Request.Context(), staffID, from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromBookings(bookings))
}

// ======================================================
// UPDATE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	updated, err := h.reschedule.Execute(c.Request.Context(), ucBooking.RescheduleBookingInput{
		BookingID:    b.ID,
		ActorID:      middleware.ActorID(c),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CustomerNote: req.CustomerNote,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(updated))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}

	cancelled, err := h.cancel.Execute(c.Request.Context(), middleware.ActorID(c), b.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(cancelled))
}

func (h *BookingHandler) SetStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	updated, err := h.setStatus.Execute(
		c.Request.Context(),
		middleware.ActorID(c),
		id,
		domain.Status(req.Status),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(updated))
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}
