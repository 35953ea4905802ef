package get_queue_position

import (
	"context"

	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

type WaitlistService interface {
	QueuePosition(ctx context.Context, entryID, customerID int64) (*models.QueuePositionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
