package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/notifyservice"
)

// Repository - операции над записями листа ожидания
type Repository interface {
	Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	NextActive(ctx context.Context, group domain.GroupKey) (*domain.WaitlistEntry, error)
	HasNotified(ctx context.Context, group domain.GroupKey) (bool, error)
	MarkNotified(ctx context.Context, id int64, token string, slot domain.Slot, notifiedAt, expiresAt time.Time) error
	TransitionStatus(ctx context.Context, id int64, from, to domain.WaitlistStatus) error
	CountAhead(ctx context.Context, group domain.GroupKey, position int) (int, error)
}

// ReservationLedger - атомарный захват слота в журнале броней
type ReservationLedger interface {
	TryClaim(ctx context.Context, claim domain.SlotClaim) (*domain.Reservation, error)
}

// Notifier - доставка уведомлений клиентам
type Notifier interface {
	SendOffer(ctx context.Context, offer notifyservice.OfferNotification) error
	SendBookingConfirmation(ctx context.Context, confirmation notifyservice.BookingConfirmation) error
}

// Scheduler - таймеры истечения предложений
type Scheduler interface {
	Schedule(ctx context.Context, entryID int64, firesAt time.Time) error
	Cancel(ctx context.Context, entryID int64) error
}

// TimeProvider - интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider - реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Metrics - доменные метрики листа ожидания
type Metrics interface {
	OfferSent()
	OfferExpired()
	ClaimConflict()
	Transition(from, to string)
}

// Logger - интерфейс для логгера
type Logger interface {
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}
