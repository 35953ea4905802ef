package rank_alternatives

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

func slotAt(staffID int64, date time.Time, start types.TimeString) domain.Slot {
	end, _ := start.AddMinutes(30)
	return domain.Slot{
		StaffID:         staffID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: 30,
	}
}

func TestExecute_PreferredStaffAndTime(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	preferredTime := types.TimeString("15:00")

	uc := NewUseCase()
	resp := uc.Execute(&Request{
		Slots: []domain.Slot{
			slotAt(2, date, "15:00"),
			slotAt(1, date, "16:00"),
			slotAt(1, date, "15:00"),
		},
		Preference: domain.Preference{
			StaffID: ptr.Ptr(int64(1)),
			Time:    &preferredTime,
		},
	})

	require.Len(t, resp.Ranked, 3)

	// Тот же мастер в запрошенное время: 1000 + 500
	assert.Equal(t, int64(1), resp.Ranked[0].StaffID)
	assert.Equal(t, types.TimeString("15:00"), resp.Ranked[0].StartTime)
	assert.Equal(t, 1500, resp.Ranked[0].ProximityScore)
	assert.Equal(t, domain.LabelExact, resp.Ranked[0].Label)

	// Тот же мастер часом позже: 1000 + 500 - 60/10
	assert.Equal(t, int64(1), resp.Ranked[1].StaffID)
	assert.Equal(t, types.TimeString("16:00"), resp.Ranked[1].StartTime)
	assert.Equal(t, 1494, resp.Ranked[1].ProximityScore)
	assert.Equal(t, domain.LabelClose, resp.Ranked[1].Label)

	// Другой мастер в запрошенное время: только 500
	assert.Equal(t, int64(2), resp.Ranked[2].StaffID)
	assert.Equal(t, 500, resp.Ranked[2].ProximityScore)
}

func TestExecute_DateContributions(t *testing.T) {
	preferredDate := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	preferredTime := types.TimeString("10:00")

	pref := domain.Preference{
		Date: &preferredDate,
		Time: &preferredTime,
	}

	tests := []struct {
		name      string
		slot      domain.Slot
		wantScore int
		wantLabel domain.SlotLabel
	}{
		{
			name:      "same date and time",
			slot:      slotAt(1, preferredDate, "10:00"),
			wantScore: domain.ScoreCloseTime + domain.ScoreSameDate,
			wantLabel: domain.LabelExact,
		},
		{
			name: "same date within close window",
			slot: slotAt(1, preferredDate, "10:40"),
			// 500 + 200 - 40/10
			wantScore: domain.ScoreCloseTime + domain.ScoreSameDate - 4,
			wantLabel: domain.LabelClose,
		},
		{
			name: "same date within near window",
			slot: slotAt(1, preferredDate, "11:50"),
			// 300 + 200 - 110/10
			wantScore: domain.ScoreNearTime + domain.ScoreSameDate - 11,
			wantLabel: domain.LabelSameDay,
		},
		{
			name: "next day same wall-clock time",
			slot: slotAt(1, preferredDate.AddDate(0, 0, 1), "10:00"),
			// Расстояние считается в полных минутах между моментами: 1440
			wantScore: -144,
			wantLabel: domain.LabelSameWeek,
		},
		{
			name:      "ten days out",
			slot:      slotAt(1, preferredDate.AddDate(0, 0, 10), "10:00"),
			wantScore: -1440,
			wantLabel: domain.LabelAlternative,
		},
	}

	uc := NewUseCase()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := uc.Execute(&Request{Slots: []domain.Slot{tt.slot}, Preference: pref})
			require.Len(t, resp.Ranked, 1)
			assert.Equal(t, tt.wantScore, resp.Ranked[0].ProximityScore)
			assert.Equal(t, tt.wantLabel, resp.Ranked[0].Label)
		})
	}
}

func TestExecute_NoPreferenceKeepsChronologicalOrder(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	uc := NewUseCase()
	resp := uc.Execute(&Request{
		Slots: []domain.Slot{
			slotAt(2, date.AddDate(0, 0, 1), "09:00"),
			slotAt(1, date, "12:00"),
			slotAt(2, date, "09:00"),
			slotAt(1, date, "09:00"),
		},
	})

	require.Len(t, resp.Ranked, 4)
	// Все баллы нулевые: порядок по (дата, время, мастер)
	for _, rs := range resp.Ranked {
		assert.Equal(t, 0, rs.ProximityScore)
		assert.Equal(t, domain.LabelAlternative, rs.Label)
	}
	assert.Equal(t, int64(1), resp.Ranked[0].StaffID)
	assert.Equal(t, types.TimeString("09:00"), resp.Ranked[0].StartTime)
	assert.Equal(t, int64(2), resp.Ranked[1].StaffID)
	assert.Equal(t, types.TimeString("12:00"), resp.Ranked[2].StartTime)
	assert.True(t, resp.Ranked[3].Date.After(date))
}

func TestExecute_Deterministic(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	preferredTime := types.TimeString("12:00")
	pref := domain.Preference{Time: &preferredTime}

	slots := []domain.Slot{
		slotAt(3, date, "11:00"),
		slotAt(1, date, "13:00"),
		slotAt(2, date, "11:00"),
	}

	uc := NewUseCase()
	first := uc.Execute(&Request{Slots: slots, Preference: pref})
	for i := 0; i < 10; i++ {
		again := uc.Execute(&Request{Slots: slots, Preference: pref})
		assert.Equal(t, first.Ranked, again.Ranked)
	}
}
