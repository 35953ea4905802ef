package find_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
)

// ReservationLedger интерфейс леджера бронирований.
// ListRange обязан вызываться один раз на мастера на весь горизонт
// поиска — по одному запросу на день является дефектом производительности,
// которого этот дизайн явно избегает.
type ReservationLedger interface {
	ListRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Reservation, error)
}

// StaffServiceClient интерфейс клиента StaffService
type StaffServiceClient interface {
	GetStaff(ctx context.Context, salonID, staffID int64) (*staffservice.Staff, error)
	ListQualifiedStaff(ctx context.Context, salonID, serviceID int64) ([]*staffservice.Staff, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*staffservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс доменных метрик поиска
type Metrics interface {
	SearchScanned(days int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
