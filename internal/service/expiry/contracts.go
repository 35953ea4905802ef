package expiry

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// TimerStore - долговременное хранилище таймеров, переживающее рестарт
type TimerStore interface {
	Put(ctx context.Context, entryID int64, firesAt time.Time) error
	Delete(ctx context.Context, entryID int64) error
	ListPending(ctx context.Context) ([]domain.ExpiryTimer, error)
}

// Callback вызывается при срабатывании таймера записи.
// Обязан быть идемпотентным: при восстановлении после рестарта возможен
// повторный вызов для уже обработанной записи.
type Callback func(ctx context.Context, entryID int64) error

// TimeProvider - интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider - реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger - интерфейс для логгера
type Logger interface {
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}
