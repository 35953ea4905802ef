package find_slots

import (
	"fmt"

	"github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
)

// validateRequest валидирует входные данные запроса с учётом лимитов
// из конфигурации. Нулевые MaxDaysAhead/MaxResults заменяются дефолтами.
func validateRequest(req *Request, limits Limits) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.MaxDaysAhead == 0 {
		req.MaxDaysAhead = limits.DefaultDaysAhead
	}
	if req.MaxDaysAhead < 1 || req.MaxDaysAhead > limits.MaxDaysAhead {
		return fmt.Errorf("%w: maxDaysAhead must be between 1 and %d", ErrInvalidInput, limits.MaxDaysAhead)
	}

	if req.MaxResults == 0 {
		req.MaxResults = limits.DefaultResults
	}
	if req.MaxResults < 1 || req.MaxResults > limits.MaxResults {
		return fmt.Errorf("%w: maxResults must be between 1 and %d", ErrInvalidInput, limits.MaxResults)
	}

	return nil
}

// validateService проверяет длительность услуги. Услуги, не помещающиеся
// в один календарный день, отклоняются явно, а не домысливаются через
// перенос даты.
func validateService(service *staffservice.Service) error {
	if service.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service duration must be positive", ErrInvalidInput)
	}
	if service.DurationMinutes >= 24*60 {
		return ErrServiceCrossesMidnight
	}
	return nil
}

// validateStaffBelongs проверяет, что мастер принадлежит запрошенному салону
func validateStaffBelongs(staff *staffservice.Staff, salonID int64) error {
	if staff.SalonID != salonID {
		return ErrStaffNotFound
	}
	return nil
}
