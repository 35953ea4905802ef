package find_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

func confirmedReservation(start types.TimeString, durationMinutes int) *domain.Reservation {
	return &domain.Reservation{
		StartTime:       start,
		DurationMinutes: durationMinutes,
		Status:          domain.ReservationConfirmed,
	}
}

func TestWorkingIntervalForDay(t *testing.T) {
	tests := []struct {
		name     string
		schedule staffservice.DaySchedule
		want     *minuteInterval
	}{
		{
			name:     "open day",
			schedule: staffservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("18:00")},
			want:     &minuteInterval{start: 540, end: 1080},
		},
		{
			name:     "closed day",
			schedule: staffservice.DaySchedule{IsOpen: false},
			want:     nil,
		},
		{
			name:     "open without hours treated as closed",
			schedule: staffservice.DaySchedule{IsOpen: true},
			want:     nil,
		},
		{
			name:     "inverted hours treated as closed",
			schedule: staffservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("18:00"), CloseTime: ptr.Ptr("09:00")},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workingIntervalForDay(tt.schedule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubtractReservations(t *testing.T) {
	working := minuteInterval{start: 540, end: 720} // 09:00 - 12:00

	tests := []struct {
		name         string
		reservations []*domain.Reservation
		want         []minuteInterval
	}{
		{
			name:         "no reservations",
			reservations: nil,
			want:         []minuteInterval{{start: 540, end: 720}},
		},
		{
			name:         "single reservation in the middle",
			reservations: []*domain.Reservation{confirmedReservation("10:00", 30)},
			want:         []minuteInterval{{start: 540, end: 600}, {start: 630, end: 720}},
		},
		{
			name:         "reservation at interval start",
			reservations: []*domain.Reservation{confirmedReservation("09:00", 60)},
			want:         []minuteInterval{{start: 600, end: 720}},
		},
		{
			name:         "reservation at interval end",
			reservations: []*domain.Reservation{confirmedReservation("11:00", 60)},
			want:         []minuteInterval{{start: 540, end: 660}},
		},
		{
			// Полуоткрытые интервалы: бронь, заканчивающаяся в 09:00,
			// не задевает рабочий интервал с 09:00
			name:         "touching boundary is not overlap",
			reservations: []*domain.Reservation{confirmedReservation("08:00", 60)},
			want:         []minuteInterval{{start: 540, end: 720}},
		},
		{
			name: "back to back reservations",
			reservations: []*domain.Reservation{
				confirmedReservation("09:30", 30),
				confirmedReservation("10:00", 30),
			},
			want: []minuteInterval{{start: 540, end: 570}, {start: 630, end: 720}},
		},
		{
			name:         "cancelled reservation does not block",
			reservations: []*domain.Reservation{{StartTime: "10:00", DurationMinutes: 30, Status: domain.ReservationCancelled}},
			want:         []minuteInterval{{start: 540, end: 720}},
		},
		{
			name:         "reservation covering whole interval",
			reservations: []*domain.Reservation{confirmedReservation("08:00", 300)},
			want:         []minuteInterval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := subtractReservations(working, tt.reservations)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotsFromInterval(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("exact fit yields one slot", func(t *testing.T) {
		slots := slotsFromInterval(7, date, minuteInterval{start: 600, end: 630}, 30, -1)
		require.Len(t, slots, 1)
		assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
		assert.Equal(t, types.TimeString("10:30"), slots[0].EndTime)
		assert.Equal(t, int64(7), slots[0].StaffID)
	})

	t.Run("stride equals duration", func(t *testing.T) {
		slots := slotsFromInterval(7, date, minuteInterval{start: 540, end: 720}, 45, -1)
		// 09:00-12:00 при 45 минутах: 09:00, 09:45, 10:30; 11:15+45=12:00 тоже помещается
		require.Len(t, slots, 4)
		assert.Equal(t, types.TimeString("11:15"), slots[3].StartTime)
		assert.Equal(t, types.TimeString("12:00"), slots[3].EndTime)
	})

	t.Run("remainder shorter than duration is dropped", func(t *testing.T) {
		slots := slotsFromInterval(7, date, minuteInterval{start: 540, end: 620}, 30, -1)
		require.Len(t, slots, 2)
	})

	t.Run("limit caps output", func(t *testing.T) {
		slots := slotsFromInterval(7, date, minuteInterval{start: 540, end: 1080}, 30, 3)
		require.Len(t, slots, 3)
	})
}

func TestClipPastStarts(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	interval := minuteInterval{start: 540, end: 1080} // 09:00 - 18:00

	t.Run("future day untouched", func(t *testing.T) {
		now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
		got := clipPastStarts(interval, date, now)
		require.NotNil(t, got)
		assert.Equal(t, interval, *got)
	})

	t.Run("today clips elapsed time", func(t *testing.T) {
		now := time.Date(2026, 3, 12, 11, 30, 0, 0, time.UTC)
		got := clipPastStarts(interval, date, now)
		require.NotNil(t, got)
		assert.Equal(t, minuteInterval{start: 690, end: 1080}, *got)
	})

	t.Run("today before opening untouched", func(t *testing.T) {
		now := time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)
		got := clipPastStarts(interval, date, now)
		require.NotNil(t, got)
		assert.Equal(t, interval, *got)
	})

	t.Run("today after closing yields nothing", func(t *testing.T) {
		now := time.Date(2026, 3, 12, 19, 0, 0, 0, time.UTC)
		assert.Nil(t, clipPastStarts(interval, date, now))
	})
}
