package notifyservice

// OfferNotification уведомление о предложении освободившегося слота.
// Доставляется клиенту через внешний канал сообщений (fire-and-forget).
type OfferNotification struct {
	WaitlistEntryID int64  `json:"waitlist_entry_id"`
	CustomerID      int64  `json:"customer_id"`
	OfferToken      string `json:"offer_token"`
	SalonID         int64  `json:"salon_id"`
	ServiceID       int64  `json:"service_id"`
	StaffID         int64  `json:"staff_id"`
	Date            string `json:"date"`       // "2025-10-15"
	StartTime       string `json:"start_time"` // "10:00"
	DurationMinutes int    `json:"duration_minutes"`
	ExpiresAt       string `json:"expires_at"` // RFC3339
}

// BookingConfirmation уведомление о подтверждённом бронировании
type BookingConfirmation struct {
	CustomerID      int64  `json:"customer_id"`
	ReservationID   int64  `json:"reservation_id"`
	SalonID         int64  `json:"salon_id"`
	ServiceID       int64  `json:"service_id"`
	StaffID         int64  `json:"staff_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
