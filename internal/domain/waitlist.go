package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// WaitlistStatus represents the lifecycle state of a waitlist entry
type WaitlistStatus string

const (
	WaitlistActive    WaitlistStatus = "active"
	WaitlistNotified  WaitlistStatus = "notified"
	WaitlistBooked    WaitlistStatus = "booked"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistPassed    WaitlistStatus = "passed"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// GroupKey identifies a waitlist group: customers waiting for the same
// salon/service combination, either for a specific staff member or for
// any staff member (StaffID == nil).
type GroupKey struct {
	SalonID   int64
	ServiceID int64
	StaffID   *int64
}

// Key returns a stable string form usable as a map key
func (g GroupKey) Key() string {
	if g.StaffID == nil {
		return fmt.Sprintf("%d:%d:any", g.SalonID, g.ServiceID)
	}
	return fmt.Sprintf("%d:%d:%d", g.SalonID, g.ServiceID, *g.StaffID)
}

// WaitlistEntry is a customer's standing request to be offered the next
// opening in a group. Entries are retained after reaching a terminal
// status; only the status changes.
type WaitlistEntry struct {
	ID         int64
	CustomerID int64
	SalonID    int64
	ServiceID  int64
	StaffID    *int64 // nil = any staff member acceptable

	// PositionInQueue is dense and strictly increasing by enqueue order
	// within a group; never reused.
	PositionInQueue int
	Status          WaitlistStatus

	// Offer fields: non-nil iff Status == notified.
	// NotifiedAt and ExpiresAt are set together and cleared together.
	OfferToken *string
	NotifiedAt *time.Time
	ExpiresAt  *time.Time

	// Snapshot of the offered slot, so accept/cascade know which
	// interval the offer refers to. Set and cleared with the offer.
	OfferedStaffID   *int64
	OfferedDate      *time.Time
	OfferedStartTime *types.TimeString
	OfferedDuration  *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group returns the entry's waitlist group key
func (e *WaitlistEntry) Group() GroupKey {
	return GroupKey{SalonID: e.SalonID, ServiceID: e.ServiceID, StaffID: e.StaffID}
}

// IsTerminal returns true if the entry can no longer transition
func (e *WaitlistEntry) IsTerminal() bool {
	switch e.Status {
	case WaitlistBooked, WaitlistExpired, WaitlistPassed, WaitlistCancelled:
		return true
	}
	return false
}

// HasActiveOffer returns true if the entry holds an offer that has not
// yet expired at the given instant
func (e *WaitlistEntry) HasActiveOffer(now time.Time) bool {
	return e.Status == WaitlistNotified && e.ExpiresAt != nil && now.Before(*e.ExpiresAt)
}

// OfferedSlot rebuilds the offered slot from the entry's offer snapshot.
// Returns false if the entry holds no offer.
func (e *WaitlistEntry) OfferedSlot() (Slot, bool) {
	if e.OfferedStaffID == nil || e.OfferedDate == nil || e.OfferedStartTime == nil || e.OfferedDuration == nil {
		return Slot{}, false
	}
	end, err := e.OfferedStartTime.AddMinutes(*e.OfferedDuration)
	if err != nil {
		return Slot{}, false
	}
	return Slot{
		StaffID:         *e.OfferedStaffID,
		Date:            *e.OfferedDate,
		StartTime:       *e.OfferedStartTime,
		EndTime:         end,
		DurationMinutes: *e.OfferedDuration,
	}, true
}

// ExpiryTimer is an at-most-once scheduled callback for a notified entry.
// Owned by the expiry scheduler; referenced by the entry but not embedded
// in it, so the entry stays serializable independent of scheduling.
type ExpiryTimer struct {
	WaitlistEntryID int64
	FiresAt         time.Time
}
