package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/reservation"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

// Service координатор листа ожидания.
//
// Все переходы статусов внутри одной группы (салон/услуга/мастер)
// сериализуются через внутренний мьютекс группы. Под мьютексом
// выполняются только чтение записи, guarded-обновление статуса и
// захват слота в журнале броней; доставка уведомлений происходит
// после выхода из критической секции.
type Service struct {
	repo         Repository
	ledger       ReservationLedger
	notifier     Notifier
	scheduler    Scheduler
	locks        *groupLocks
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр координатора листа ожидания
func NewService(
	repo Repository,
	ledger ReservationLedger,
	notifier Notifier,
	scheduler Scheduler,
	timeProvider TimeProvider,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		ledger:       ledger,
		notifier:     notifier,
		scheduler:    scheduler,
		locks:        newGroupLocks(),
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
	}
}

// pendingOffer - предложение, подготовленное под мьютексом группы;
// доставляется клиенту после разблокировки.
type pendingOffer struct {
	entry     *domain.WaitlistEntry
	token     string
	slot      domain.Slot
	expiresAt time.Time
}

// Join ставит клиента в очередь группы.
// Позиция выдается монотонно в порядке постановки и не переиспользуется.
func (s *Service) Join(ctx context.Context, req *models.JoinRequest) (*models.EntryResponse, error) {
	if req.CustomerID <= 0 || req.SalonID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: customerId, salonId and serviceId are required", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	entry := &domain.WaitlistEntry{
		CustomerID: req.CustomerID,
		SalonID:    req.SalonID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Status:     domain.WaitlistActive,
	}

	created, err := s.repo.Enqueue(ctx, entry)
	if err != nil {
		s.logger.Error("Join: enqueue failed for customer=%d group=%s: %v", req.CustomerID, entry.Group().Key(), err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.metrics.Transition("", string(domain.WaitlistActive))
	s.logger.Info("Join: customer=%d joined group=%s at position=%d (entry=%d)",
		created.CustomerID, created.Group().Key(), created.PositionInQueue, created.ID)

	return models.FromDomainEntry(created), nil
}

// SlotOpened обрабатывает освобождение слота: предлагает его первой
// активной записи подходящей группы. Сначала проверяется очередь на
// конкретного мастера, затем очередь "любой мастер". Если предложение
// никому не отправлено, слот остается в открытой доступности и виден
// через поиск.
func (s *Service) SlotOpened(ctx context.Context, group domain.GroupKey, slot domain.Slot) error {
	offer, err := s.prepareOffer(ctx, group, slot)
	if err != nil {
		return err
	}

	if offer == nil && group.StaffID != nil {
		anyGroup := domain.GroupKey{SalonID: group.SalonID, ServiceID: group.ServiceID}
		offer, err = s.prepareOffer(ctx, anyGroup, slot)
		if err != nil {
			return err
		}
	}

	if offer == nil {
		s.logger.Info("SlotOpened: no waiting customers for group=%s, slot stays open", group.Key())
		return nil
	}

	s.deliverOffer(ctx, offer)
	return nil
}

// AcceptOffer принимает действующее предложение: проверяет токен и окно,
// атомарно захватывает слот в журнале броней и переводит запись в booked.
// Если слот успели занять, запись получает passed, предложение каскадом
// уходит следующему в очереди, а клиенту возвращается ErrSlotUnavailable.
func (s *Service) AcceptOffer(ctx context.Context, req *models.AcceptOfferRequest) (*models.AcceptOfferResponse, error) {
	if req.OfferToken == "" {
		return nil, fmt.Errorf("%w: offerToken is required", ErrInvalidInput)
	}

	entry, err := s.getEntryForCustomer(ctx, req.EntryID, req.CustomerID, "AcceptOffer")
	if err != nil {
		return nil, err
	}

	var (
		reservation *domain.Reservation
		cascade     *pendingOffer
		confirm     bool
	)

	err = func() error {
		unlock := s.locks.Lock(entry.Group().Key())
		defer unlock()

		// Перечитываем под мьютексом: статус мог измениться
		entry, err = s.repo.GetByID(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("%w: AcceptOffer - repository error: %v", ErrInternal, err)
		}
		if entry.Status != domain.WaitlistNotified {
			return ErrOfferNotActive
		}
		if entry.OfferToken == nil || *entry.OfferToken != req.OfferToken {
			return fmt.Errorf("%w: offer token mismatch", ErrOfferNotActive)
		}

		slot, ok := entry.OfferedSlot()
		if !ok {
			return fmt.Errorf("%w: AcceptOffer - notified entry=%d has no offer snapshot", ErrInternal, entry.ID)
		}

		now := s.timeProvider.Now()
		if entry.ExpiresAt == nil || !now.Before(*entry.ExpiresAt) {
			// Окно истекло, не дожидаемся срабатывания таймера
			if err := s.transition(ctx, entry, domain.WaitlistExpired); err != nil {
				return err
			}
			s.metrics.OfferExpired()
			s.cancelTimer(ctx, entry.ID)
			cascade = s.nextOfferLocked(ctx, entry.Group(), slot)
			return ErrOfferExpired
		}

		claimed, claimErr := s.ledger.TryClaim(ctx, domain.SlotClaim{
			CustomerID:      entry.CustomerID,
			SalonID:         entry.SalonID,
			ServiceID:       entry.ServiceID,
			StaffID:         slot.StaffID,
			BookingDate:     slot.Date,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
		})
		if claimErr != nil {
			if errors.Is(claimErr, reservationRepo.ErrSlotTaken) {
				// Слот перехватили через прямое бронирование
				s.metrics.ClaimConflict()
				s.logger.Warn("AcceptOffer: claim conflict for entry=%d, slot staff=%d %s %s",
					entry.ID, slot.StaffID, slot.Date.Format(domain.DateFormat), slot.StartTime)
				if err := s.transition(ctx, entry, domain.WaitlistPassed); err != nil {
					return err
				}
				s.cancelTimer(ctx, entry.ID)
				cascade = s.nextOfferLocked(ctx, entry.Group(), slot)
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: AcceptOffer - ledger error: %v", ErrInternal, claimErr)
		}

		if err := s.transition(ctx, entry, domain.WaitlistBooked); err != nil {
			return err
		}
		s.cancelTimer(ctx, entry.ID)
		reservation = claimed
		confirm = true
		return nil
	}()

	if cascade != nil {
		s.deliverOffer(ctx, cascade)
	}
	if err != nil {
		return nil, err
	}

	if confirm {
		s.sendConfirmation(ctx, reservation)
	}

	s.logger.Info("AcceptOffer: entry=%d booked reservation=%d", entry.ID, reservation.ID)
	return models.FromDomainReservation(reservation), nil
}

// DeclineOffer отклоняет действующее предложение: запись переходит в
// passed, слот каскадом предлагается следующему в очереди.
func (s *Service) DeclineOffer(ctx context.Context, entryID, customerID int64) (*models.EntryResponse, error) {
	entry, err := s.getEntryForCustomer(ctx, entryID, customerID, "DeclineOffer")
	if err != nil {
		return nil, err
	}

	var cascade *pendingOffer

	err = func() error {
		unlock := s.locks.Lock(entry.Group().Key())
		defer unlock()

		entry, err = s.repo.GetByID(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("%w: DeclineOffer - repository error: %v", ErrInternal, err)
		}
		if entry.Status != domain.WaitlistNotified {
			return ErrOfferNotActive
		}

		slot, _ := entry.OfferedSlot()
		if err := s.transition(ctx, entry, domain.WaitlistPassed); err != nil {
			return err
		}
		s.cancelTimer(ctx, entry.ID)
		cascade = s.nextOfferLocked(ctx, entry.Group(), slot)
		return nil
	}()

	if cascade != nil {
		s.deliverOffer(ctx, cascade)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("DeclineOffer: entry=%d passed, cascaded=%t", entry.ID, cascade != nil)
	return models.FromDomainEntry(entry), nil
}

// CancelEntry снимает запись с ожидания по инициативе клиента.
// Активная запись просто закрывается; запись с действующим предложением
// дополнительно отдает слот следующему в очереди.
func (s *Service) CancelEntry(ctx context.Context, entryID, customerID int64) (*models.EntryResponse, error) {
	entry, err := s.getEntryForCustomer(ctx, entryID, customerID, "CancelEntry")
	if err != nil {
		return nil, err
	}

	var cascade *pendingOffer

	err = func() error {
		unlock := s.locks.Lock(entry.Group().Key())
		defer unlock()

		entry, err = s.repo.GetByID(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("%w: CancelEntry - repository error: %v", ErrInternal, err)
		}

		switch entry.Status {
		case domain.WaitlistActive:
			return s.transition(ctx, entry, domain.WaitlistCancelled)
		case domain.WaitlistNotified:
			slot, _ := entry.OfferedSlot()
			if err := s.transition(ctx, entry, domain.WaitlistCancelled); err != nil {
				return err
			}
			s.cancelTimer(ctx, entry.ID)
			cascade = s.nextOfferLocked(ctx, entry.Group(), slot)
			return nil
		default:
			return fmt.Errorf("%w: entry=%d is already %s", ErrInvalidTransition, entry.ID, entry.Status)
		}
	}()

	if cascade != nil {
		s.deliverOffer(ctx, cascade)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("CancelEntry: entry=%d cancelled by customer=%d", entry.ID, customerID)
	return models.FromDomainEntry(entry), nil
}

// HandleExpiry обрабатывает срабатывание таймера предложения.
// Идемпотентен: если запись уже не в статусе notified (принята,
// отклонена или отменена до срабатывания), вызов ничего не меняет.
func (s *Service) HandleExpiry(ctx context.Context, entryID int64) error {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Warn("HandleExpiry: entry=%d not found, timer dropped", entryID)
			return nil
		}
		return fmt.Errorf("%w: HandleExpiry - repository error: %v", ErrInternal, err)
	}

	var cascade *pendingOffer

	err = func() error {
		unlock := s.locks.Lock(entry.Group().Key())
		defer unlock()

		entry, err = s.repo.GetByID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("%w: HandleExpiry - repository error: %v", ErrInternal, err)
		}
		if entry.Status != domain.WaitlistNotified {
			// Запись успела уйти из notified - таймер опоздал
			return nil
		}

		slot, _ := entry.OfferedSlot()
		if err := s.transition(ctx, entry, domain.WaitlistExpired); err != nil {
			return err
		}
		s.metrics.OfferExpired()
		s.cancelTimer(ctx, entry.ID)
		cascade = s.nextOfferLocked(ctx, entry.Group(), slot)
		return nil
	}()

	if cascade != nil {
		s.deliverOffer(ctx, cascade)
	}
	if err != nil {
		return err
	}

	s.logger.Info("HandleExpiry: entry=%d expired, cascaded=%t", entryID, cascade != nil)
	return nil
}

// QueuePosition возвращает позицию записи в очереди группы.
// Для записи с действующим предложением позиция равна 0.
func (s *Service) QueuePosition(ctx context.Context, entryID, customerID int64) (*models.QueuePositionResponse, error) {
	entry, err := s.getEntryForCustomer(ctx, entryID, customerID, "QueuePosition")
	if err != nil {
		return nil, err
	}

	resp := &models.QueuePositionResponse{
		EntryID: entry.ID,
		Status:  string(entry.Status),
	}

	switch entry.Status {
	case domain.WaitlistActive:
		ahead, err := s.repo.CountAhead(ctx, entry.Group(), entry.PositionInQueue)
		if err != nil {
			s.logger.Error("QueuePosition: count failed for entry=%d: %v", entry.ID, err)
			return nil, fmt.Errorf("%w: QueuePosition - repository error: %v", ErrInternal, err)
		}
		resp.Position = ahead + 1
	case domain.WaitlistNotified:
		resp.Position = 0
	default:
		resp.Position = 0
	}

	return resp, nil
}

// GetEntry возвращает запись листа ожидания с проверкой владельца
func (s *Service) GetEntry(ctx context.Context, entryID, customerID int64) (*models.EntryResponse, error) {
	entry, err := s.getEntryForCustomer(ctx, entryID, customerID, "GetEntry")
	if err != nil {
		return nil, err
	}
	return models.FromDomainEntry(entry), nil
}

// prepareOffer под мьютексом группы выбирает первую активную запись и
// переводит её в notified. Возвращает nil без ошибки, если в группе нет
// ожидающих или уже есть запись с действующим предложением.
func (s *Service) prepareOffer(ctx context.Context, group domain.GroupKey, slot domain.Slot) (*pendingOffer, error) {
	unlock := s.locks.Lock(group.Key())
	defer unlock()

	offer := s.nextOfferLocked(ctx, group, slot)
	return offer, nil
}

// nextOfferLocked выбирает следующего кандидата группы и отправляет ему
// предложение слота. Вызывается строго под мьютексом группы.
// Инвариант: в группе не более одной записи в статусе notified.
func (s *Service) nextOfferLocked(ctx context.Context, group domain.GroupKey, slot domain.Slot) *pendingOffer {
	if slot.DurationMinutes <= 0 {
		return nil
	}

	hasNotified, err := s.repo.HasNotified(ctx, group)
	if err != nil {
		s.logger.Error("nextOfferLocked: notified check failed for group=%s: %v", group.Key(), err)
		return nil
	}
	if hasNotified {
		// В группе уже висит предложение - слот остается в открытой доступности
		return nil
	}

	next, err := s.repo.NextActive(ctx, group)
	if err != nil {
		if !errors.Is(err, waitlistRepo.ErrNoActiveEntries) {
			s.logger.Error("nextOfferLocked: next candidate lookup failed for group=%s: %v", group.Key(), err)
		}
		return nil
	}

	now := s.timeProvider.Now()
	expiresAt := now.Add(domain.OfferTTLMinutes * time.Minute)
	token := uuid.NewString()

	if err := s.repo.MarkNotified(ctx, next.ID, token, slot, now, expiresAt); err != nil {
		// ErrStaleStatus под мьютексом означает гонку вне нашего контроля - логируем и выходим
		s.logger.Error("nextOfferLocked: mark notified failed for entry=%d: %v", next.ID, err)
		return nil
	}

	if err := s.scheduler.Schedule(ctx, next.ID, expiresAt); err != nil {
		// Предложение уже зафиксировано; дежурная проверка окна в AcceptOffer
		// и восстановление таймеров при старте не дадут ему зависнуть навсегда
		s.logger.Error("nextOfferLocked: schedule failed for entry=%d: %v", next.ID, err)
	}

	s.metrics.Transition(string(domain.WaitlistActive), string(domain.WaitlistNotified))
	s.metrics.OfferSent()
	s.logger.Info("nextOfferLocked: entry=%d notified, slot staff=%d %s %s, expires=%s",
		next.ID, slot.StaffID, slot.Date.Format(domain.DateFormat), slot.StartTime, expiresAt.Format(time.RFC3339))

	return &pendingOffer{entry: next, token: token, slot: slot, expiresAt: expiresAt}
}

// deliverOffer доставляет подготовленное предложение клиенту.
// Вызывается после выхода из критической секции; сбой доставки не
// откатывает переход - окно предложения продолжает идти.
func (s *Service) deliverOffer(ctx context.Context, offer *pendingOffer) {
	notification := notifyservice.OfferNotification{
		WaitlistEntryID: offer.entry.ID,
		CustomerID:      offer.entry.CustomerID,
		OfferToken:      offer.token,
		SalonID:         offer.entry.SalonID,
		ServiceID:       offer.entry.ServiceID,
		StaffID:         offer.slot.StaffID,
		Date:            offer.slot.Date.Format(domain.DateFormat),
		StartTime:       offer.slot.StartTime.String(),
		DurationMinutes: offer.slot.DurationMinutes,
		ExpiresAt:       offer.expiresAt.Format(time.RFC3339),
	}

	if err := s.notifier.SendOffer(ctx, notification); err != nil {
		s.logger.Warn("deliverOffer: delivery failed for entry=%d: %v", offer.entry.ID, err)
	}
}

// sendConfirmation отправляет подтверждение созданного бронирования
func (s *Service) sendConfirmation(ctx context.Context, r *domain.Reservation) {
	confirmation := notifyservice.BookingConfirmation{
		CustomerID:      r.CustomerID,
		ReservationID:   r.ID,
		SalonID:         r.SalonID,
		ServiceID:       r.ServiceID,
		StaffID:         r.StaffID,
		Date:            r.BookingDate.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
	}

	if err := s.notifier.SendBookingConfirmation(ctx, confirmation); err != nil {
		s.logger.Warn("sendConfirmation: delivery failed for reservation=%d: %v", r.ID, err)
	}
}

// transition выполняет guarded-переход статуса и обновляет метрики
func (s *Service) transition(ctx context.Context, entry *domain.WaitlistEntry, to domain.WaitlistStatus) error {
	from := entry.Status
	if err := s.repo.TransitionStatus(ctx, entry.ID, from, to); err != nil {
		if errors.Is(err, waitlistRepo.ErrStaleStatus) {
			return fmt.Errorf("%w: entry=%d left status %s concurrently", ErrOfferNotActive, entry.ID, from)
		}
		return fmt.Errorf("%w: transition %s->%s failed for entry=%d: %v", ErrInternal, from, to, entry.ID, err)
	}
	entry.Status = to
	s.metrics.Transition(string(from), string(to))
	return nil
}

// cancelTimer снимает таймер истечения; сбой не критичен,
// повторное срабатывание таймера идемпотентно
func (s *Service) cancelTimer(ctx context.Context, entryID int64) {
	if err := s.scheduler.Cancel(ctx, entryID); err != nil {
		s.logger.Warn("cancelTimer: cancel failed for entry=%d: %v", entryID, err)
	}
}

// getEntryForCustomer загружает запись и проверяет владельца
func (s *Service) getEntryForCustomer(ctx context.Context, entryID, customerID int64, op string) (*domain.WaitlistEntry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Warn("%s: entry=%d not found", op, entryID)
			return nil, ErrEntryNotFound
		}
		s.logger.Error("%s: repository error for entry=%d: %v", op, entryID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if entry.CustomerID != customerID {
		s.logger.Warn("%s: customer=%d has no access to entry=%d", op, customerID, entryID)
		return nil, ErrAccessDenied
	}

	return entry, nil
}
