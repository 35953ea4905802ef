package rank_alternatives

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// score вычисляет аддитивный балл близости слота к предпочтению.
// Вклады независимы; константы — параметры дизайна (internal/domain),
// не настраиваются в рантайме.
func score(slot domain.Slot, pref domain.Preference) int {
	total := 0

	if pref.StaffID != nil && slot.StaffID == *pref.StaffID {
		total += domain.ScoreSameStaff
	}

	if pref.Time != nil {
		diff := minutesDistance(slot, pref)

		// Бонус за близость по времени: окно 60 минут требует совпадения
		// даты, окно 120 минут — нет
		if diff <= domain.CloseTimeWindowMinutes && sameDateAsPreference(slot, pref) {
			total += domain.ScoreCloseTime
		} else if diff <= domain.NearTimeWindowMinutes {
			total += domain.ScoreNearTime
		}

		// Линейный штраф за удалённость, всегда при заданном времени
		total -= diff / domain.ScorePenaltyPerTen
	}

	if pref.Date != nil && isSameDay(slot.Date, *pref.Date) {
		total += domain.ScoreSameDate
	}

	return total
}

// label присваивает метку близости. Условия проверяются в порядке
// приоритета, срабатывает первое.
func label(slot domain.Slot, pref domain.Preference) domain.SlotLabel {
	staffMatches := pref.StaffID == nil || slot.StaffID == *pref.StaffID

	if pref.Time != nil {
		diff := minutesDistance(slot, pref)
		if diff == 0 && staffMatches && sameDateAsPreference(slot, pref) {
			return domain.LabelExact
		}
		if diff <= domain.CloseTimeWindowMinutes && sameDateAsPreference(slot, pref) {
			return domain.LabelClose
		}
	}

	if pref.Date != nil {
		if isSameDay(slot.Date, *pref.Date) {
			return domain.LabelSameDay
		}
		if daysApart(slot.Date, *pref.Date) <= domain.SameWeekDays {
			return domain.LabelSameWeek
		}
	}

	return domain.LabelAlternative
}

// minutesDistance возвращает |разница| в минутах между началом слота и
// предпочитаемым временем. Если задана предпочитаемая дата, разница
// считается как полные прошедшие минуты между моментами на разных датах,
// а не как разница времени суток.
func minutesDistance(slot domain.Slot, pref domain.Preference) int {
	slotMinutes, err := slot.StartTime.TotalMinutes()
	if err != nil {
		return 0
	}
	prefMinutes, err := pref.Time.TotalMinutes()
	if err != nil {
		return 0
	}

	refDate := slot.Date
	if pref.Date != nil {
		refDate = *pref.Date
	}

	slotAbs := slot.Date.Add(time.Duration(slotMinutes) * time.Minute)
	prefAbs := refDate.Add(time.Duration(prefMinutes) * time.Minute)

	diff := slotAbs.Sub(prefAbs)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Minutes())
}

// sameDateAsPreference: дата слота совпадает с предпочитаемой; отсутствие
// предпочитаемой даты трактуется как совпадение (сравнение идёт только
// по времени суток)
func sameDateAsPreference(slot domain.Slot, pref domain.Preference) bool {
	if pref.Date == nil {
		return true
	}
	return isSameDay(slot.Date, *pref.Date)
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func daysApart(date1, date2 time.Time) int {
	d1 := time.Date(date1.Year(), date1.Month(), date1.Day(), 0, 0, 0, 0, time.UTC)
	d2 := time.Date(date2.Year(), date2.Month(), date2.Day(), 0, 0, 0, 0, time.UTC)
	diff := d1.Sub(d2)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
