package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// View is a staff member's configured week plus their internal events in
// a range.
type View struct {
	StaffID        uuid.UUID              `json:"staff_id"`
	WorkingHours   []models.WorkingHours  `json:"working_hours"`
	InternalEvents []models.InternalEvent `json:"internal_events"`
}

type CreateEventInput struct {
	StaffID   uuid.UUID
	Category  string
	StartTime time.Time
	EndTime   time.Time
	Note      string
}

// Manager maintains working hours and internal events.
type Manager struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewManager(store domain.Store, audit *audit.Dispatcher) *Manager {
	return &Manager{store: store, audit: audit}
}

// ======================================================
// WORKING HOURS
// ======================================================

func (m *Manager) WorkingHours(ctx context.Context, staffID uuid.UUID) ([]models.WorkingHours, error) {
	if _, err := m.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return m.store.ListWorkingHours(ctx, staffID)
}

// ReplaceWorkingHours swaps the whole week for a staff member. Existing
// bookings are left untouched.
func (m *Manager) ReplaceWorkingHours(
	ctx context.Context,
	actorID *uuid.UUID,
	staffID uuid.UUID,
	rules []models.WorkingHours,
) ([]models.WorkingHours, error) {

	for i := range rules {
		rules[i].StaffID = staffID
		if err := domain.ValidateRule(rules[i]); err != nil {
			return nil, err
		}
	}

	if _, err := m.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}

	if err := m.store.ReplaceWorkingHours(ctx, staffID, rules); err != nil {
		return nil, err
	}

	m.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "working_hours_updated",
		Entity:   "staff",
		EntityID: &staffID,
		Metadata: map[string]any{"rules": len(rules)},
	})

	return m.store.ListWorkingHours(ctx, staffID)
}

// ======================================================
// INTERNAL EVENTS
// ======================================================

func (m *Manager) InternalEvents(
	ctx context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.InternalEvent, error) {

	if err := domain.ValidateInterval(from, to); err != nil {
		return nil, err
	}
	if _, err := m.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return m.store.InternalEventsInRange(ctx, staffID, from.UTC(), to.UTC())
}

func (m *Manager) CreateInternalEvent(
	ctx context.Context,
	actorID *uuid.UUID,
	in CreateEventInput,
) (*models.InternalEvent, error) {

	ev := &models.InternalEvent{
		ID:        uuid.New(),
		StaffID:   in.StaffID,
		Category:  in.Category,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Note:      in.Note,
	}
	if err := domain.ValidateInternalEvent(*ev); err != nil {
		return nil, err
	}

	if _, err := m.store.GetStaff(ctx, in.StaffID); err != nil {
		return nil, err
	}

	if err := m.store.CreateInternalEvent(ctx, ev); err != nil {
		return nil, err
	}

	m.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "internal_event_created",
		Entity:   "internal_event",
		EntityID: &ev.ID,
		Metadata: map[string]any{"category": ev.Category, "staff_id": ev.StaffID},
	})

	return ev, nil
}

func (m *Manager) DeleteInternalEvent(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	if err := m.store.DeleteInternalEvent(ctx, id); err != nil {
		return err
	}

	m.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "internal_event_deleted",
		Entity:   "internal_event",
		EntityID: &id,
	})
	return nil
}

// ======================================================
// VIEW
// ======================================================

func (m *Manager) View(ctx context.Context, staffID uuid.UUID, from, to time.Time) (*View, error) {
	hours, err := m.WorkingHours(ctx, staffID)
	if err != nil {
		return nil, err
	}
	events, err := m.InternalEvents(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}

	return &View{
		StaffID:        staffID,
		WorkingHours:   hours,
		InternalEvents: events,
	}, nil
}
