package rank_alternatives

import (
	"sort"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// UseCase use case ранжирования альтернативных слотов относительно
// предпочтения клиента. Чистая функция: ни I/O, ни случайности — для
// одинаковых входов порядок всегда одинаков.
type UseCase struct{}

// NewUseCase создает новый экземпляр use case
func NewUseCase() *UseCase {
	return &UseCase{}
}

// Execute ранжирует слоты по убыванию балла близости.
// Стабильная сортировка; равные баллы упорядочиваются по наиболее
// раннему (дата, время начала), затем по ID мастера — порядок
// воспроизводим между запусками.
func (uc *UseCase) Execute(req *Request) *Response {
	ranked := make([]domain.RankedSlot, 0, len(req.Slots))

	for _, slot := range req.Slots {
		ranked = append(ranked, domain.RankedSlot{
			Slot:           slot,
			ProximityScore: score(slot, req.Preference),
			Label:          label(slot, req.Preference),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ProximityScore != b.ProximityScore {
			return a.ProximityScore > b.ProximityScore
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.StaffID < b.StaffID
	})

	return &Response{Ranked: ranked}
}
