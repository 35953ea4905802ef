package accept_offer

import (
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

// AcceptOfferRequest HTTP request model
type AcceptOfferRequest struct {
	OfferToken string `json:"offerToken"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AcceptOfferRequest) ToServiceRequest(entryID, customerID int64) *models.AcceptOfferRequest {
	return &models.AcceptOfferRequest{
		EntryID:    entryID,
		CustomerID: customerID,
		OfferToken: r.OfferToken,
	}
}
