package booking

import "time"

// Verdict is the outcome of an availability check. Reason is empty when
// Available is true.
type Verdict struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func Available() Verdict {
	return Verdict{Available: true}
}

func Unavailable(reason string) Verdict {
	return Verdict{Reason: reason}
}

// Reason texts returned by the evaluator.
const (
	ReasonNotWorking         = "not working this day"
	ReasonOutsideHours       = "outside working hours"
	ReasonInternalEvent      = "internal event conflict"
	ReasonConflictingBooking = "conflicting booking"
)

// TimeSlot is a bookable interval.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
