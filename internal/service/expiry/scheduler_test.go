package expiry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

type memStore struct {
	mu   sync.Mutex
	rows map[int64]time.Time
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]time.Time)}
}

func (m *memStore) Put(ctx context.Context, entryID int64, firesAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[entryID] = firesAt
	return nil
}

func (m *memStore) Delete(ctx context.Context, entryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, entryID)
	return nil
}

func (m *memStore) ListPending(ctx context.Context) ([]domain.ExpiryTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ExpiryTimer, 0, len(m.rows))
	for id, at := range m.rows {
		out = append(out, domain.ExpiryTimer{WaitlistEntryID: id, FiresAt: at})
	}
	return out, nil
}

func (m *memStore) has(entryID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[entryID]
	return ok
}

// recorder собирает срабатывания таймеров; fired сигналит о каждом вызове
type recorder struct {
	mu    sync.Mutex
	calls []int64
	fired chan int64
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan int64, 16)}
}

func (r *recorder) callback(ctx context.Context, entryID int64) error {
	r.mu.Lock()
	r.calls = append(r.calls, entryID)
	r.mu.Unlock()
	r.fired <- entryID
	return nil
}

func (r *recorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) waitFire(t *testing.T) int64 {
	t.Helper()
	select {
	case id := <-r.fired:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
		return 0
	}
}

func (r *recorder) assertNoFire(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case id := <-r.fired:
		t.Fatalf("unexpected fire for entry=%d", id)
	case <-time.After(within):
	}
}

type testLogger struct{}

func (testLogger) Info(format string, v ...any)  {}
func (testLogger) Warn(format string, v ...any)  {}
func (testLogger) Error(format string, v ...any) {}

func newTestScheduler(store TimerStore) *Scheduler {
	return NewScheduler(store, RealTimeProvider{}, testLogger{})
}

func TestSchedule_FiresOnceAndCleansRow(t *testing.T) {
	store := newMemStore()
	rec := newRecorder()
	s := newTestScheduler(store)
	defer s.Stop()
	s.SetCallback(rec.callback)

	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(10*time.Millisecond)))
	assert.True(t, store.has(1))

	assert.Equal(t, int64(1), rec.waitFire(t))
	rec.assertNoFire(t, 50*time.Millisecond)
	assert.Equal(t, 1, rec.callCount())

	// Строка таймера удалена после успешной обработки
	assert.Eventually(t, func() bool { return !store.has(1) }, time.Second, 5*time.Millisecond)
}

func TestSchedule_RescheduleOverwritesTimer(t *testing.T) {
	store := newMemStore()
	rec := newRecorder()
	s := newTestScheduler(store)
	defer s.Stop()
	s.SetCallback(rec.callback)

	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(time.Hour)))
	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(10*time.Millisecond)))

	assert.Equal(t, int64(1), rec.waitFire(t))
	rec.assertNoFire(t, 50*time.Millisecond)
	assert.Equal(t, 1, rec.callCount())
}

func TestCancel_PreventsFire(t *testing.T) {
	store := newMemStore()
	rec := newRecorder()
	s := newTestScheduler(store)
	defer s.Stop()
	s.SetCallback(rec.callback)

	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(30*time.Millisecond)))
	require.NoError(t, s.Cancel(context.Background(), 1))

	rec.assertNoFire(t, 100*time.Millisecond)
	assert.False(t, store.has(1))

	// Снятие несуществующего таймера не является ошибкой
	require.NoError(t, s.Cancel(context.Background(), 42))
}

func TestRestore_FiresOverdueImmediately(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Put(context.Background(), 1, time.Now().Add(-time.Minute)))
	require.NoError(t, store.Put(context.Background(), 2, time.Now().Add(time.Hour)))

	rec := newRecorder()
	s := newTestScheduler(store)
	defer s.Stop()
	s.SetCallback(rec.callback)

	require.NoError(t, s.Restore(context.Background()))

	// Просроченный таймер срабатывает сразу, будущий остаётся взведённым
	assert.Equal(t, int64(1), rec.waitFire(t))
	rec.assertNoFire(t, 50*time.Millisecond)

	s.mu.Lock()
	_, pending := s.timers[2]
	s.mu.Unlock()
	assert.True(t, pending)
	assert.True(t, store.has(2))
}

func TestStop_PreventsPendingFires(t *testing.T) {
	store := newMemStore()
	rec := newRecorder()
	s := newTestScheduler(store)
	s.SetCallback(rec.callback)

	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(30*time.Millisecond)))
	s.Stop()

	rec.assertNoFire(t, 100*time.Millisecond)

	// Строка не тронута: её подхватит Restore при следующем старте
	assert.True(t, store.has(1))

	// Планирование после остановки отклоняется
	err := s.Schedule(context.Background(), 2, time.Now().Add(time.Minute))
	assert.Error(t, err)
}

func TestFire_WithoutCallbackKeepsRow(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(store)
	defer s.Stop()

	require.NoError(t, s.Schedule(context.Background(), 1, time.Now().Add(5*time.Millisecond)))

	// Без обработчика срабатывание не удаляет строку: запись не потеряна
	time.Sleep(60 * time.Millisecond)
	assert.True(t, store.has(1))
}
