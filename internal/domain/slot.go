package domain

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// Slot represents a candidate bookable interval for one staff member.
// Value type; never mutated after construction.
type Slot struct {
	StaffID         int64
	Date            time.Time // date only, time component is zero
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	// RollsOver marks a slot whose end lies on the next calendar day.
	// The search engine never emits such slots (services crossing
	// midnight are rejected at validation); the flag exists so the
	// representation is explicit rather than inferred from arithmetic.
	RollsOver bool
}

// Equal reports whether two slots describe the same interval.
func (s Slot) Equal(other Slot) bool {
	return s.StaffID == other.StaffID &&
		s.Date.Equal(other.Date) &&
		s.StartTime == other.StartTime &&
		s.EndTime == other.EndTime &&
		s.DurationMinutes == other.DurationMinutes &&
		s.RollsOver == other.RollsOver
}

// WorkingInterval is a staff member's open interval on one date.
// Absence (nil) means the staff member is closed that day.
type WorkingInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// SlotLabel classifies how close a ranked slot is to the customer's preference
type SlotLabel string

const (
	LabelExact       SlotLabel = "exact"
	LabelClose       SlotLabel = "close"
	LabelSameDay     SlotLabel = "same_day"
	LabelSameWeek    SlotLabel = "same_week"
	LabelAlternative SlotLabel = "alternative"
)

// RankedSlot is a slot with its proximity score relative to a preference.
// Derived and transient; produced by the ranking engine.
type RankedSlot struct {
	Slot
	ProximityScore int
	Label          SlotLabel
}

// Preference is the customer's stated preference used for ranking.
// All fields are optional.
type Preference struct {
	StaffID *int64
	Date    *time.Time
	Time    *types.TimeString
}
