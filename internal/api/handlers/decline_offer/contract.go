package decline_offer

import (
	"context"

	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

type WaitlistService interface {
	DeclineOffer(ctx context.Context, entryID, customerID int64) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
