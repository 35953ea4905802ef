package models

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// Request модели

// JoinRequest запрос на постановку в лист ожидания
type JoinRequest struct {
	CustomerID int64  `json:"customerId"`
	SalonID    int64  `json:"salonId"`
	ServiceID  int64  `json:"serviceId"`
	StaffID    *int64 `json:"staffId,omitempty"` // nil - любой свободный мастер
}

// AcceptOfferRequest запрос на принятие предложенного слота
type AcceptOfferRequest struct {
	EntryID    int64  `json:"entryId"`
	CustomerID int64  `json:"customerId"`
	OfferToken string `json:"offerToken"`
}

// Response модели

// EntryResponse ответ с данными записи листа ожидания
type EntryResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	Status          string  `json:"status"`
	PositionInQueue int     `json:"positionInQueue"`

	// Данные действующего предложения (только для статуса notified)
	OfferedStaffID  *int64  `json:"offeredStaffId,omitempty"`
	OfferedDate     *string `json:"offeredDate,omitempty"`      // "2026-03-12"
	OfferedStart    *string `json:"offeredStartTime,omitempty"` // "14:30"
	OfferExpiresAt  *string `json:"offerExpiresAt,omitempty"`   // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AcceptOfferResponse ответ на принятие предложения
type AcceptOfferResponse struct {
	ReservationID   int64  `json:"reservationId"`
	StaffID         int64  `json:"staffId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// QueuePositionResponse ответ с позицией записи в очереди
type QueuePositionResponse struct {
	EntryID  int64  `json:"entryId"`
	Status   string `json:"status"`
	Position int    `json:"position"` // 0 - предложение уже отправлено
}

// Методы конвертации

// FromDomainEntry конвертирует domain модель в DTO
func FromDomainEntry(e *domain.WaitlistEntry) *EntryResponse {
	if e == nil {
		return nil
	}

	resp := &EntryResponse{
		ID:              e.ID,
		CustomerID:      e.CustomerID,
		SalonID:         e.SalonID,
		ServiceID:       e.ServiceID,
		StaffID:         e.StaffID,
		Status:          string(e.Status),
		PositionInQueue: e.PositionInQueue,
		OfferedStaffID:  e.OfferedStaffID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	if e.OfferedDate != nil {
		dateStr := e.OfferedDate.Format(domain.DateFormat)
		resp.OfferedDate = &dateStr
	}
	if e.OfferedStartTime != nil {
		startStr := e.OfferedStartTime.String()
		resp.OfferedStart = &startStr
	}
	if e.ExpiresAt != nil {
		expiresStr := e.ExpiresAt.Format(time.RFC3339)
		resp.OfferExpiresAt = &expiresStr
	}

	return resp
}

// FromDomainReservation конвертирует созданную бронь в ответ на принятие
func FromDomainReservation(r *domain.Reservation) *AcceptOfferResponse {
	if r == nil {
		return nil
	}

	return &AcceptOfferResponse{
		ReservationID:   r.ID,
		StaffID:         r.StaffID,
		BookingDate:     r.BookingDate.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
	}
}
