package release_slot

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// Request запрос на отмену бронирования с освобождением слота
type Request struct {
	ReservationID int64
	CustomerID    int64
}

// Response ответ с данными отменённого бронирования
type Response struct {
	ReservationID   int64     `json:"reservationId"`
	StaffID         int64     `json:"staffId"`
	BookingDate     string    `json:"bookingDate"`
	StartTime       string    `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	CancelledAt     time.Time `json:"cancelledAt"`
}

func fromDomainReservation(r *domain.Reservation) *Response {
	resp := &Response{
		ReservationID:   r.ID,
		StaffID:         r.StaffID,
		BookingDate:     r.BookingDate.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
	}
	if r.CancelledAt != nil {
		resp.CancelledAt = *r.CancelledAt
	}
	return resp
}
