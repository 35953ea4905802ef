package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Scheduler планировщик таймеров истечения предложений.
//
// Для каждой записи держит не более одного таймера (at-most-once):
// повторное планирование перезаписывает прежний отсчёт. Каждый таймер
// дублируется строкой в хранилище, поэтому после рестарта процесса
// отсчёты восстанавливаются через Restore; таймеры с прошедшим временем
// срабатывают немедленно.
type Scheduler struct {
	store        TimerStore
	timeProvider TimeProvider
	logger       Logger

	mu       sync.Mutex
	timers   map[int64]*time.Timer
	callback Callback
	stopped  bool

	wg sync.WaitGroup
}

// NewScheduler создает новый планировщик таймеров истечения
func NewScheduler(store TimerStore, timeProvider TimeProvider, logger Logger) *Scheduler {
	return &Scheduler{
		store:        store,
		timeProvider: timeProvider,
		logger:       logger,
		timers:       make(map[int64]*time.Timer),
	}
}

// SetCallback задает обработчик срабатывания таймера.
// Вызывается один раз при сборке приложения, до Restore.
func (s *Scheduler) SetCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = cb
}

// Schedule взводит таймер записи на заданное время.
// Уже взведённый таймер той же записи перезаписывается.
func (s *Scheduler) Schedule(ctx context.Context, entryID int64, firesAt time.Time) error {
	if err := s.store.Put(ctx, entryID, firesAt); err != nil {
		return fmt.Errorf("schedule entry=%d: %w", entryID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return fmt.Errorf("schedule entry=%d: scheduler is stopped", entryID)
	}

	if old, ok := s.timers[entryID]; ok {
		old.Stop()
	}

	delay := firesAt.Sub(s.timeProvider.Now())
	if delay < 0 {
		delay = 0
	}

	s.timers[entryID] = time.AfterFunc(delay, func() {
		s.fire(entryID)
	})

	s.logger.Info("Schedule: timer set for entry=%d, fires at %s", entryID, firesAt.Format(time.RFC3339))
	return nil
}

// Cancel снимает таймер записи. Отсутствие таймера не является ошибкой.
func (s *Scheduler) Cancel(ctx context.Context, entryID int64) error {
	s.mu.Lock()
	if t, ok := s.timers[entryID]; ok {
		t.Stop()
		delete(s.timers, entryID)
	}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("cancel entry=%d: %w", entryID, err)
	}
	return nil
}

// Restore взводит таймеры из хранилища после рестарта процесса.
// Таймеры с прошедшим временем срабатывания выполняются немедленно:
// обработчик идемпотентен, лишний вызов безопасен.
func (s *Scheduler) Restore(ctx context.Context) error {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("restore timers: %w", err)
	}

	now := s.timeProvider.Now()
	restored, overdue := 0, 0

	s.mu.Lock()
	for _, timer := range pending {
		entryID := timer.WaitlistEntryID
		delay := timer.FiresAt.Sub(now)
		if delay < 0 {
			delay = 0
			overdue++
		} else {
			restored++
		}
		s.timers[entryID] = time.AfterFunc(delay, func() {
			s.fire(entryID)
		})
	}
	s.mu.Unlock()

	s.logger.Info("Restore: %d timers restored, %d overdue fired immediately", restored, overdue)
	return nil
}

// Stop останавливает планировщик: снимает невыполненные таймеры и
// дожидается завершения уже запущенных обработчиков. Строки в хранилище
// не трогаются - их подхватит Restore при следующем старте.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Stop: expiry scheduler stopped")
}

// fire выполняется в горутине таймера
func (s *Scheduler) fire(entryID int64) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, entryID)
	cb := s.callback
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	if cb == nil {
		s.logger.Error("fire: no callback configured, entry=%d dropped", entryID)
		return
	}

	ctx := context.Background()
	if err := cb(ctx, entryID); err != nil {
		s.logger.Error("fire: expiry handling failed for entry=%d: %v", entryID, err)
		return
	}

	// Строка таймера больше не нужна
	if err := s.store.Delete(ctx, entryID); err != nil {
		s.logger.Warn("fire: timer row cleanup failed for entry=%d: %v", entryID, err)
	}
}
