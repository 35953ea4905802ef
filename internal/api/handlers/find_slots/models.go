package find_slots

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
	findSlots "github.com/m04kA/SMC-WaitlistService/internal/usecase/find_slots"
	rankAlternatives "github.com/m04kA/SMC-WaitlistService/internal/usecase/rank_alternatives"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	SalonID      int64           `json:"salonId"`
	ServiceID    int64           `json:"serviceId"`
	Slots        []AvailableSlot `json:"slots"`
	SearchedDays int             `json:"searchedDays"`

	// Exhausted сигнализирует, что на всём горизонте нет ни одного
	// слота: клиенту предлагается встать в лист ожидания
	Exhausted bool `json:"exhausted"`
}

// AvailableSlot модель слота с оценкой близости к предпочтению
type AvailableSlot struct {
	StaffID         int64  `json:"staffId"`
	Date            string `json:"date"`      // "2026-03-12"
	StartTime       string `json:"startTime"` // "14:30"
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	ProximityScore  int    `json:"proximityScore"`
	Label           string `json:"label"`
}

// queryParams распарсенные query параметры запроса
type queryParams struct {
	StaffID       *int64
	PreferredDate *time.Time
	PreferredTime *types.TimeString
	DaysAhead     int
	MaxResults    int
}

// ToUseCaseRequest создает запрос use case поиска
func (q *queryParams) ToUseCaseRequest(customerID, salonID, serviceID int64) *findSlots.Request {
	return &findSlots.Request{
		CustomerID:    customerID,
		SalonID:       salonID,
		ServiceID:     serviceID,
		StaffID:       q.StaffID,
		MaxDaysAhead:  q.DaysAhead,
		MaxResults:    q.MaxResults,
		PreferredDate: q.PreferredDate,
		PreferredTime: q.PreferredTime,
	}
}

// ToPreference создает предпочтение для ранжирования
func (q *queryParams) ToPreference() domain.Preference {
	return domain.Preference{
		StaffID: q.StaffID,
		Date:    q.PreferredDate,
		Time:    q.PreferredTime,
	}
}

// FromUseCaseResponses конвертирует ответы use case в HTTP response
func FromUseCaseResponses(salonID, serviceID int64, search *findSlots.Response, ranked *rankAlternatives.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(ranked.Ranked))
	for i, rs := range ranked.Ranked {
		slots[i] = AvailableSlot{
			StaffID:         rs.StaffID,
			Date:            rs.Date.Format(domain.DateFormat),
			StartTime:       rs.StartTime.String(),
			EndTime:         rs.EndTime.String(),
			DurationMinutes: rs.DurationMinutes,
			ProximityScore:  rs.ProximityScore,
			Label:           string(rs.Label),
		}
	}

	return &AvailableSlotsResponse{
		SalonID:      salonID,
		ServiceID:    serviceID,
		Slots:        slots,
		SearchedDays: search.SearchedDays,
		Exhausted:    search.Exhausted,
	}
}
