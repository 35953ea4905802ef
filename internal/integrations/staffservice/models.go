package staffservice

import "time"

// DaySchedule расписание работы мастера на день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "18:00"
}

// WeeklySchedule недельное расписание мастера
type WeeklySchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Staff модель мастера из StaffService
type Staff struct {
	ID           int64          `json:"id"`
	SalonID      int64          `json:"salon_id"`
	Name         string         `json:"name"`
	WorkingHours WeeklySchedule `json:"working_hours"`
}

// ScheduleForDay возвращает расписание мастера на день недели указанной даты
func (s *Staff) ScheduleForDay(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return s.WorkingHours.Monday
	case time.Tuesday:
		return s.WorkingHours.Tuesday
	case time.Wednesday:
		return s.WorkingHours.Wednesday
	case time.Thursday:
		return s.WorkingHours.Thursday
	case time.Friday:
		return s.WorkingHours.Friday
	case time.Saturday:
		return s.WorkingHours.Saturday
	case time.Sunday:
		return s.WorkingHours.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Service модель услуги из StaffService
type Service struct {
	ID              int64    `json:"id"`
	SalonID         int64    `json:"salon_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price,omitempty"`
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
