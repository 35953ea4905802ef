package join_waitlist

import (
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	SalonID   int64  `json:"salonId"`
	ServiceID int64  `json:"serviceId"`
	StaffID   *int64 `json:"staffId,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest(customerID int64) *models.JoinRequest {
	return &models.JoinRequest{
		CustomerID: customerID,
		SalonID:    r.SalonID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
	}
}
