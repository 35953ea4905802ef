package find_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// minuteInterval полуоткрытый интервал [start, end) в минутах от полуночи
type minuteInterval struct {
	start int
	end   int
}

// workingIntervalForDay конвертирует дневное расписание мастера в рабочий
// интервал. nil означает, что мастер в этот день не работает — день
// пропускается, а не трактуется как круглосуточный.
func workingIntervalForDay(schedule staffservice.DaySchedule) (*minuteInterval, error) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return nil, nil
	}

	open, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return nil, err
	}

	start, err := open.TotalMinutes()
	if err != nil {
		return nil, err
	}
	end, err := closeTime.TotalMinutes()
	if err != nil {
		return nil, err
	}

	if end <= start {
		// Некорректное или ночное расписание — считаем день закрытым
		return nil, nil
	}

	return &minuteInterval{start: start, end: end}, nil
}

// subtractReservations вычитает бронирования дня из рабочего интервала и
// возвращает свободные подинтервалы. Бронирования отсортированы по началу
// (гарантия леджера) и не пересекаются между собой по построению.
// Интервалы полуоткрытые: бронирование, заканчивающееся ровно в момент
// начала другого, конфликтом не является.
func subtractReservations(working minuteInterval, reservations []*domain.Reservation) ([]minuteInterval, error) {
	free := make([]minuteInterval, 0, len(reservations)+1)
	cursor := working.start

	for _, res := range reservations {
		if !res.IsBlocking() {
			continue
		}

		resStart, err := res.StartTime.TotalMinutes()
		if err != nil {
			return nil, err
		}
		resEnd := resStart + res.DurationMinutes

		// Бронирование целиком вне рабочего интервала
		if resEnd <= working.start || resStart >= working.end {
			continue
		}

		if resStart > cursor {
			free = append(free, minuteInterval{start: cursor, end: resStart})
		}
		if resEnd > cursor {
			cursor = resEnd
		}
	}

	if cursor < working.end {
		free = append(free, minuteInterval{start: cursor, end: working.end})
	}

	return free, nil
}

// slotsFromInterval нарезает свободный подинтервал на слоты фиксированной
// длительности, начиная с его начала. Свободный подинтервал, в точности
// равный длительности услуги, даёт ровно один слот.
func slotsFromInterval(staffID int64, date time.Time, free minuteInterval, durationMinutes int, limit int) []domain.Slot {
	slots := make([]domain.Slot, 0)

	for start := free.start; start+durationMinutes <= free.end; start += durationMinutes {
		if limit >= 0 && len(slots) >= limit {
			break
		}
		slots = append(slots, domain.Slot{
			StaffID:         staffID,
			Date:            date,
			StartTime:       minutesToTimeString(start),
			EndTime:         minutesToTimeString(start + durationMinutes),
			DurationMinutes: durationMinutes,
		})
	}

	return slots
}

// reservationsByDate группирует бронирования горизонта по дате.
// Порядок внутри дня сохраняется (ListRange сортирует по началу).
func reservationsByDate(reservations []*domain.Reservation) map[string][]*domain.Reservation {
	byDate := make(map[string][]*domain.Reservation)
	for _, res := range reservations {
		key := res.BookingDate.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], res)
	}
	return byDate
}

// clipPastStarts отбрасывает из интервала время, уже прошедшее сегодня.
// Для будущих дат интервал возвращается без изменений.
func clipPastStarts(interval minuteInterval, date, now time.Time) *minuteInterval {
	if !isSameDay(date, now) {
		return &interval
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if nowMinutes >= interval.end {
		return nil
	}
	if nowMinutes > interval.start {
		interval.start = nowMinutes
	}
	return &interval
}

func minutesToTimeString(total int) types.TimeString {
	if total == 24*60 {
		return types.TimeString("24:00")
	}
	return types.TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dateOnly обнуляет компонент времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
