package accept_offer

import (
	"context"

	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

type WaitlistService interface {
	AcceptOffer(ctx context.Context, req *models.AcceptOfferRequest) (*models.AcceptOfferResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
