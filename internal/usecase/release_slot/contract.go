package release_slot

import (
	"context"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// ReservationLedger - операции над журналом бронирований
type ReservationLedger interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64) (*domain.Reservation, error)
}

// WaitlistCoordinator получает событие освобождения слота
type WaitlistCoordinator interface {
	SlotOpened(ctx context.Context, group domain.GroupKey, slot domain.Slot) error
}

// Logger - интерфейс для логгера
type Logger interface {
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}
