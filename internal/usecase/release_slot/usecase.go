package release_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/reservation"
)

// UseCase use case отмены бронирования.
//
// Отмена - единственный источник события "слот освободился": после
// guarded-обновления статуса интервал передается координатору листа
// ожидания, который либо предлагает его первому ожидающему, либо
// оставляет в открытой доступности.
type UseCase struct {
	ledger      ReservationLedger
	coordinator WaitlistCoordinator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger ReservationLedger, coordinator WaitlistCoordinator, logger Logger) *UseCase {
	return &UseCase{
		ledger:      ledger,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Execute отменяет бронирование и освобождает слот.
//
// Алгоритм:
//  1. Загружаем бронирование и проверяем владельца.
//  2. Переводим confirmed -> cancelled guarded-обновлением: повторная
//     отмена не порождает второго события освобождения.
//  3. Передаем освободившийся интервал координатору листа ожидания.
//     Сбой координатора не откатывает отмену: слот остается видимым
//     через поиск.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ReservationID <= 0 || req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: reservationId and customerId are required", ErrInvalidInput)
	}

	uc.logger.Info("ReleaseSlot: cancelling reservation=%d for customer=%d", req.ReservationID, req.CustomerID)

	// 1. Проверяем владельца до изменения состояния
	reservation, err := uc.ledger.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ReleaseSlot: lookup failed for reservation=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: Execute - ledger error: %v", ErrInternal, err)
	}
	if reservation.CustomerID != req.CustomerID {
		uc.logger.Warn("ReleaseSlot: customer=%d has no access to reservation=%d", req.CustomerID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	// 2. Guarded-отмена
	cancelled, err := uc.ledger.Cancel(ctx, req.ReservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		case errors.Is(err, reservationRepo.ErrNotCancellable):
			return nil, ErrNotCancellable
		default:
			uc.logger.Error("ReleaseSlot: cancel failed for reservation=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: Execute - ledger error: %v", ErrInternal, err)
		}
	}

	// 3. Отдаем слот листу ожидания
	slot, err := cancelled.FreedSlot()
	if err != nil {
		uc.logger.Error("ReleaseSlot: freed slot rebuild failed for reservation=%d: %v", cancelled.ID, err)
		return fromDomainReservation(cancelled), nil
	}

	group := domain.GroupKey{
		SalonID:   cancelled.SalonID,
		ServiceID: cancelled.ServiceID,
		StaffID:   &cancelled.StaffID,
	}
	if err := uc.coordinator.SlotOpened(ctx, group, slot); err != nil {
		uc.logger.Error("ReleaseSlot: waitlist hand-off failed for reservation=%d: %v", cancelled.ID, err)
	}

	uc.logger.Info("ReleaseSlot: reservation=%d cancelled, slot staff=%d %s %s released",
		cancelled.ID, slot.StaffID, slot.Date.Format(domain.DateFormat), slot.StartTime)

	return fromDomainReservation(cancelled), nil
}
