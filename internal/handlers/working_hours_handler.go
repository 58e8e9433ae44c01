package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/schedule"
)

// ScheduleHandler serves working hours, internal events and the combined
// schedule view of a staff member.
type ScheduleHandler struct {
	manager *schedule.Manager
	clock   timezone.Clock
}

func NewScheduleHandler(manager *schedule.Manager, clock timezone.Clock) *ScheduleHandler {
	return &ScheduleHandler{manager: manager, clock: clock}
}

type WorkingShift struct {
	Weekday   int    `json:"weekday" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type WorkingHoursUpdateRequest struct {
	Shifts []WorkingShift `json:"shifts" binding:"dive"`
}

type CreateInternalEventRequest struct {
	Category  string    `json:"category" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Note      string    `json:"note" binding:"max=255"`
}

// ======================================================
// WORKING HOURS
// ======================================================

func (h *ScheduleHandler) GetWorkingHours(c *gin.Context) {
	staffID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	hours, err := h.manager.WorkingHours(c.Request.Context(), staffID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, hours)
}

// UpdateWorkingHours replaces the full week. An empty list clears it.
func (h *ScheduleHandler) UpdateWorkingHours(c *gin.Context) {
	staffID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rules := make([]models.WorkingHours, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		rules = append(rules, models.WorkingHours{
			StaffID:   staffID,
			Weekday:   s.Weekday,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	saved, err := h.manager.ReplaceWorkingHours(c.Request.Context(), middleware.ActorID(c), staffID, rules)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, saved)
}

// ======================================================
// INTERNAL EVENTS
// ======================================================

func (h *ScheduleHandler) ListInternalEvents(c *gin.Context) {
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

	events, err := h.manager.InternalEvents(c.Request.Context(), staffID, from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, events)
}

func (h *ScheduleHandler) CreateInternalEvent(c *gin.Context) {
	staffID, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req CreateInternalEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ev, err := h.manager.CreateInternalEvent(c.Request.Context(), middleware.ActorID(c), schedule.CreateEventInput{
		StaffID:   staffID,
		Category:  req.Category,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ev)
}

func (h *ScheduleHandler) DeleteInternalEvent(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := h.manager.DeleteInternalEvent(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// VIEW
// ======================================================

func (h *ScheduleHandler) View(c *gin.Context) {
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

	view, err := h.manager.View(c.Request.Context(), staffID, from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, view)
}
