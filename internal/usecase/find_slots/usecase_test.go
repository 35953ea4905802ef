package find_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type recordingMetrics struct {
	scannedDays []int
}

func (m *recordingMetrics) SearchScanned(days int) { m.scannedDays = append(m.scannedDays, days) }

type fakeLedger struct {
	reservations map[int64][]*domain.Reservation
	calls        int
}

func (f *fakeLedger) ListRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.Reservation, error) {
	f.calls++
	return f.reservations[staffID], nil
}

type fakeStaffClient struct {
	service *staffservice.Service
	staff   map[int64]*staffservice.Staff
}

func (f *fakeStaffClient) GetStaff(ctx context.Context, salonID, staffID int64) (*staffservice.Staff, error) {
	member, ok := f.staff[staffID]
	if !ok {
		return nil, staffservice.ErrStaffNotFound
	}
	return member, nil
}

func (f *fakeStaffClient) ListQualifiedStaff(ctx context.Context, salonID, serviceID int64) ([]*staffservice.Staff, error) {
	result := make([]*staffservice.Staff, 0, len(f.staff))
	for _, member := range f.staff {
		result = append(result, member)
	}
	return result, nil
}

func (f *fakeStaffClient) GetService(ctx context.Context, salonID, serviceID int64) (*staffservice.Service, error) {
	if f.service == nil {
		return nil, staffservice.ErrServiceNotFound
	}
	return f.service, nil
}

func alwaysOpen(open, close string) staffservice.WeeklySchedule {
	day := staffservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
	return staffservice.WeeklySchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func alwaysClosed() staffservice.WeeklySchedule {
	return staffservice.WeeklySchedule{}
}

func testLimits() Limits {
	return Limits{
		DefaultDaysAhead: 30,
		MaxDaysAhead:     365,
		DefaultResults:   20,
		MaxResults:       100,
		Scope:            ScopeTotal,
	}
}

func newTestUseCase(ledger *fakeLedger, client *fakeStaffClient, limits Limits, now time.Time) (*UseCase, *recordingMetrics) {
	m := &recordingMetrics{}
	uc := NewUseCase(ledger, client, limits, m, nopLogger{})
	uc.timeProvider = &stubTimeProvider{now: now}
	return uc, m
}

func TestExecute_SingleDayWithReservation(t *testing.T) {
	// Мастер работает 09:00-12:00, бронь 10:00-10:30, услуга 30 минут:
	// свободны 09:00, 09:30, 10:30, 11:00, 11:30
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	thursday := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{reservations: map[int64][]*domain.Reservation{
		7: {{
			StaffID:         7,
			BookingDate:     thursday,
			StartTime:       "10:00",
			DurationMinutes: 30,
			Status:          domain.ReservationConfirmed,
		}},
	}}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 30},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 1, WorkingHours: alwaysOpen("09:00", "12:00")},
		},
	}

	uc, metrics := newTestUseCase(ledger, client, testLimits(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		SalonID:      1,
		ServiceID:    3,
		StaffID:      ptr.Ptr(int64(7)),
		MaxDaysAhead: 1,
		MaxResults:   20,
	})
	require.NoError(t, err)

	starts := make([]types.TimeString, len(resp.Slots))
	for i, slot := range resp.Slots {
		starts[i] = slot.StartTime
	}
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts)
	assert.False(t, resp.Exhausted)
	assert.Equal(t, 1, resp.SearchedDays)
	assert.Equal(t, []int{1}, metrics.scannedDays)
}

func TestExecute_BatchedReservationFetch(t *testing.T) {
	// Один batched-запрос к леджеру на мастера, независимо от числа дней
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 60},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 1, WorkingHours: alwaysOpen("09:00", "18:00")},
			8: {ID: 8, SalonID: 1, WorkingHours: alwaysOpen("09:00", "18:00")},
		},
	}

	uc, _ := newTestUseCase(ledger, client, testLimits(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		SalonID:      1,
		ServiceID:    3,
		MaxDaysAhead: 30,
		MaxResults:   100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Slots)
	assert.Equal(t, 2, ledger.calls, "expected exactly one ledger call per staff member")
}

func TestExecute_EarlyTerminationAtMaxResults(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 30},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 1, WorkingHours: alwaysOpen("09:00", "18:00")},
		},
	}

	uc, _ := newTestUseCase(ledger, client, testLimits(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		SalonID:      1,
		ServiceID:    3,
		StaffID:      ptr.Ptr(int64(7)),
		MaxDaysAhead: 30,
		MaxResults:   5,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 5)
	// Первый день дает 18 слотов — дальше первого дня поиск не уходит
	assert.Equal(t, 1, resp.SearchedDays)
	assert.False(t, resp.Exhausted)
}

func TestExecute_ExhaustedHorizon(t *testing.T) {
	// 30 дней без единого слота: exhausted=true, просмотрены все дни
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 30},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 1, WorkingHours: alwaysClosed()},
		},
	}

	uc, metrics := newTestUseCase(ledger, client, testLimits(), now)

	resp, err := uc.Execute(context.Background(), &Request{
		SalonID:      1,
		ServiceID:    3,
		StaffID:      ptr.Ptr(int64(7)),
		MaxDaysAhead: 30,
		MaxResults:   20,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.True(t, resp.Exhausted)
	assert.Equal(t, 30, resp.SearchedDays)
	assert.Equal(t, []int{30}, metrics.scannedDays)
}

func TestExecute_NoQualifiedStaff(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 30},
		staff:   map[int64]*staffservice.Staff{},
	}

	uc, _ := newTestUseCase(ledger, client, testLimits(), now)

	_, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 3})
	assert.ErrorIs(t, err, ErrNoQualifiedStaff)
}

func TestExecute_ServiceCrossesMidnight(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 24 * 60},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 1, WorkingHours: alwaysOpen("09:00", "18:00")},
		},
	}

	uc, _ := newTestUseCase(ledger, client, testLimits(), now)

	_, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 3})
	assert.ErrorIs(t, err, ErrServiceCrossesMidnight)
}

func TestExecute_StaffFromAnotherSalonRejected(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	client := &fakeStaffClient{
		service: &staffservice.Service{ID: 3, SalonID: 1, DurationMinutes: 30},
		staff: map[int64]*staffservice.Staff{
			7: {ID: 7, SalonID: 2, WorkingHours: alwaysOpen("09:00", "18:00")},
		},
	}

	uc, _ := newTestUseCase(ledger, client, testLimits(), now)

	_, err := uc.Execute(context.Background(), &Request{
		SalonID:   1,
		ServiceID: 3,
		StaffID:   ptr.Ptr(int64(7)),
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	uc, _ := newTestUseCase(&fakeLedger{}, &fakeStaffClient{}, testLimits(), now)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero salon", req: &Request{ServiceID: 3}},
		{name: "zero service", req: &Request{SalonID: 1}},
		{name: "days over limit", req: &Request{SalonID: 1, ServiceID: 3, MaxDaysAhead: 1000}},
		{name: "results over limit", req: &Request{SalonID: 1, ServiceID: 3, MaxResults: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
