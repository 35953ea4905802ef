package find_slots

import (
	"context"

	findSlots "github.com/m04kA/SMC-WaitlistService/internal/usecase/find_slots"
	rankAlternatives "github.com/m04kA/SMC-WaitlistService/internal/usecase/rank_alternatives"
)

type FindSlotsUseCase interface {
	Execute(ctx context.Context, req *findSlots.Request) (*findSlots.Response, error)
}

type RankAlternativesUseCase interface {
	Execute(req *rankAlternatives.Request) *rankAlternatives.Response
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
