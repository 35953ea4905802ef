package rank_alternatives

import (
	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// Request модель запроса ранжирования
type Request struct {
	Slots      []domain.Slot
	Preference domain.Preference
}

// Response модель ответа: слоты в порядке убывания близости к предпочтению
type Response struct {
	Ranked []domain.RankedSlot
}
