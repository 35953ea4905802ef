package domain

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation represents an existing booking occupying a staff member's time.
// Only confirmed reservations block a slot.
type Reservation struct {
	ID              int64
	CustomerID      int64
	SalonID         int64
	ServiceID       int64
	StaffID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          ReservationStatus

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the reservation occupies its interval
func (r *Reservation) IsBlocking() bool {
	return r.Status == ReservationConfirmed
}

// EndTime returns the exclusive end of the reservation interval
func (r *Reservation) EndTime() (types.TimeString, error) {
	return r.StartTime.AddMinutes(r.DurationMinutes)
}

// FreedSlot builds the slot description of a cancelled reservation,
// used to re-offer the interval to the waitlist.
func (r *Reservation) FreedSlot() (Slot, error) {
	end, err := r.EndTime()
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		StaffID:         r.StaffID,
		Date:            r.BookingDate,
		StartTime:       r.StartTime,
		EndTime:         end,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// SlotClaim describes an atomic attempt to convert a slot into a
// confirmed reservation.
type SlotClaim struct {
	CustomerID      int64
	SalonID         int64
	ServiceID       int64
	StaffID         int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
}
