package booking

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// transitions lists every allowed move out of a non-terminal status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, nil
	}
	return "", Validation("invalid_status", "unknown booking status "+s)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// BlocksTime reports whether a booking in this status occupies its interval.
func (s Status) BlocksTime() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// ===============================
// Validations
// ===============================

func InitialStatus() Status {
	return StatusPending
}

// CanTransition checks a move along the status machine.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return Conflict(
		"invalid_transition",
		"cannot move booking from "+string(from)+" to "+string(to),
	)
}

// CanCancel rejects bookings that already reached an end state.
func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return Conflict("already_cancelled", "booking is already cancelled")
	case StatusCompleted:
		return Conflict("already_completed", "completed bookings cannot be cancelled")
	}
	return CanTransition(current, StatusCancelled)
}

// CanReschedule only allows bookings that still hold their slot.
func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return Conflict("invalid_state", "booking in status "+string(current)+" cannot be rescheduled")
	}
	return nil
}
