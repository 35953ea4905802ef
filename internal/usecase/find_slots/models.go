package find_slots

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// MaxResultsScope определяет, что именно ограничивает MaxResults
type MaxResultsScope string

const (
	// ScopeTotal — MaxResults ограничивает общее число слотов по всем мастерам
	ScopeTotal MaxResultsScope = "total"
	// ScopePerStaff — MaxResults ограничивает число слотов каждого мастера отдельно
	ScopePerStaff MaxResultsScope = "per_staff"
)

// Limits параметры поиска из конфигурации сервиса
type Limits struct {
	DefaultDaysAhead int
	MaxDaysAhead     int
	DefaultResults   int
	MaxResults       int
	Scope            MaxResultsScope
}

// Request модель запроса на поиск доступных слотов.
// StaffID == nil означает "подойдёт любой мастер".
type Request struct {
	CustomerID   int64             // ID клиента (для логирования, не влияет на результат)
	SalonID      int64             // ID салона
	ServiceID    int64             // ID услуги
	StaffID      *int64            // Предпочитаемый мастер (опционально)
	MaxDaysAhead int               // Горизонт поиска в днях от сегодняшнего
	MaxResults   int               // Максимум слотов в ответе
	PreferredDate *time.Time       // Предпочитаемая дата (для ранжирования выше по стеку)
	PreferredTime *types.TimeString // Предпочитаемое время (для ранжирования выше по стеку)
}

// Response модель ответа поиска
type Response struct {
	Slots []domain.Slot // Найденные слоты в порядке обхода горизонта

	// SearchedDays — число реально просмотренных дней (диагностика,
	// не влияет на корректность)
	SearchedDays int

	// Exhausted == true, когда горизонт закончился без единого слота.
	// Это не ошибка: выше по стеку это триггер постановки в лист ожидания.
	Exhausted bool
}
