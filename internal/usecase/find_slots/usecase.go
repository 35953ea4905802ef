package find_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	staffClient "github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
)

// UseCase use case поиска доступных слотов по скользящему горизонту дней.
// Чтение без побочных эффектов: при транзиентной ошибке I/O запрос можно
// повторить целиком.
type UseCase struct {
	ledger       ReservationLedger
	staffClient  StaffServiceClient
	limits       Limits
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger ReservationLedger,
	staffClient StaffServiceClient,
	limits Limits,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:       ledger,
		staffClient:  staffClient,
		limits:       limits,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет поиск слотов.
//
// Алгоритм:
//  1. Определяем набор мастеров: либо один запрошенный, либо все,
//     выполняющие услугу.
//  2. Загружаем бронирования на ВЕСЬ горизонт одним запросом на мастера —
//     никогда по запросу на день.
//  3. Обходим дни горизонта по возрастанию даты, вычитая бронирования из
//     рабочих часов каждого мастера.
//  4. Останавливаемся, как только набрано MaxResults слотов или горизонт
//     исчерпан. Exhausted=true при пустом результате на всём горизонте —
//     выше по стеку это триггер листа ожидания.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindSlots: customer=%d, salon=%d, service=%d, staff=%v, days=%d, max=%d",
		req.CustomerID, req.SalonID, req.ServiceID, req.StaffID, req.MaxDaysAhead, req.MaxResults)

	// 1. Валидация входных данных (подставляет дефолтные лимиты)
	if err := validateRequest(req, uc.limits); err != nil {
		uc.logger.Warn("FindSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу (длительность определяет нарезку слотов)
	service, err := uc.staffClient.GetService(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, staffClient.ErrServiceNotFound) {
			uc.logger.Warn("FindSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, staffClient.ErrSalonNotFound) {
			uc.logger.Warn("FindSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("FindSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service); err != nil {
		uc.logger.Warn("FindSlots: service validation failed: %v", err)
		return nil, err
	}

	// 3. Определяем набор кандидатов-мастеров
	staff, err := uc.resolveStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	// Детерминированный порядок обхода мастеров
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })

	// 4. Загружаем бронирования на весь горизонт: один batched-вызов
	// на мастера, O(мастеров) точек ожидания, не O(дни × мастера)
	horizonStart := dateOnly(now)
	horizonEnd := horizonStart.AddDate(0, 0, req.MaxDaysAhead-1)

	reservationsByStaff := make(map[int64]map[string][]*domain.Reservation, len(staff))
	for _, member := range staff {
		reservations, err := uc.ledger.ListRange(ctx, member.ID, horizonStart, horizonEnd)
		if err != nil {
			uc.logger.Error("FindSlots: failed to list reservations for staff=%d: %v", member.ID, err)
			return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
		}
		reservationsByStaff[member.ID] = reservationsByDate(reservations)
	}

	// 5. Обход горизонта по дням
	slots := make([]domain.Slot, 0, req.MaxResults)
	perStaffCount := make(map[int64]int, len(staff))
	searchedDays := 0

	for offset := 0; offset < req.MaxDaysAhead; offset++ {
		date := horizonStart.AddDate(0, 0, offset)
		searchedDays++

		for _, member := range staff {
			if uc.staffDone(perStaffCount[member.ID], len(slots), req.MaxResults) {
				continue
			}

			working, err := workingIntervalForDay(member.ScheduleForDay(date))
			if err != nil {
				uc.logger.Error("FindSlots: bad schedule for staff=%d: %v", member.ID, err)
				return nil, fmt.Errorf("%w: bad working hours: %v", ErrInternal, err)
			}
			if working == nil {
				// Мастер в этот день не работает
				continue
			}

			clipped := clipPastStarts(*working, date, now)
			if clipped == nil {
				continue
			}

			dayReservations := reservationsByStaff[member.ID][date.Format(domain.DateFormat)]
			free, err := subtractReservations(*clipped, dayReservations)
			if err != nil {
				uc.logger.Error("FindSlots: failed to subtract reservations for staff=%d: %v", member.ID, err)
				return nil, fmt.Errorf("%w: failed to subtract reservations: %v", ErrInternal, err)
			}

			for _, interval := range free {
				remaining := uc.remaining(perStaffCount[member.ID], len(slots), req.MaxResults)
				if remaining == 0 {
					break
				}
				emitted := slotsFromInterval(member.ID, date, interval, service.DurationMinutes, remaining)
				slots = append(slots, emitted...)
				perStaffCount[member.ID] += len(emitted)
			}
		}

		if uc.allDone(staff, perStaffCount, len(slots), req.MaxResults) {
			break
		}
	}

	exhausted := len(slots) == 0 && searchedDays == req.MaxDaysAhead

	uc.metrics.SearchScanned(searchedDays)
	uc.logger.Info("FindSlots: found %d slots in %d days for salon=%d, service=%d (exhausted=%t)",
		len(slots), searchedDays, req.SalonID, req.ServiceID, exhausted)

	return &Response{
		Slots:        slots,
		SearchedDays: searchedDays,
		Exhausted:    exhausted,
	}, nil
}

// resolveStaff возвращает набор кандидатов: один запрошенный мастер или
// все мастера, выполняющие услугу. Пустой набор — ошибка конфигурации.
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request) ([]*staffClient.Staff, error) {
	if req.StaffID != nil {
		member, err := uc.staffClient.GetStaff(ctx, req.SalonID, *req.StaffID)
		if err != nil {
			if errors.Is(err, staffClient.ErrStaffNotFound) {
				uc.logger.Warn("FindSlots: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("FindSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if err := validateStaffBelongs(member, req.SalonID); err != nil {
			return nil, err
		}
		return []*staffClient.Staff{member}, nil
	}

	staff, err := uc.staffClient.ListQualifiedStaff(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, staffClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("FindSlots: failed to list qualified staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list qualified staff: %v", ErrInternal, err)
	}

	if len(staff) == 0 {
		uc.logger.Warn("FindSlots: no staff qualified for service id=%d in salon id=%d", req.ServiceID, req.SalonID)
		return nil, ErrNoQualifiedStaff
	}

	return staff, nil
}

// staffDone проверяет, достигнут ли лимит для мастера при текущем scope
func (uc *UseCase) staffDone(staffCount, totalCount, maxResults int) bool {
	if uc.limits.Scope == ScopePerStaff {
		return staffCount >= maxResults
	}
	return totalCount >= maxResults
}

// remaining возвращает, сколько слотов ещё можно выдать (текущий scope)
func (uc *UseCase) remaining(staffCount, totalCount, maxResults int) int {
	if uc.limits.Scope == ScopePerStaff {
		return maxResults - staffCount
	}
	return maxResults - totalCount
}

// allDone проверяет, можно ли прекратить обход дней
func (uc *UseCase) allDone(staff []*staffClient.Staff, perStaff map[int64]int, totalCount, maxResults int) bool {
	if uc.limits.Scope == ScopePerStaff {
		for _, member := range staff {
			if perStaff[member.ID] < maxResults {
				return false
			}
		}
		return true
	}
	return totalCount >= maxResults
}
