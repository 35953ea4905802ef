package find_slots

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("find_slots: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("find_slots: service not found")

	// ErrStaffNotFound возвращается, когда запрошенный мастер не найден
	ErrStaffNotFound = errors.New("find_slots: staff member not found")

	// ErrNoQualifiedStaff возвращается, когда ни один мастер не выполняет
	// услугу. Это ошибка конфигурации: не ретраится, сообщается сразу.
	ErrNoQualifiedStaff = errors.New("find_slots: no staff qualified for service")

	// ErrServiceCrossesMidnight возвращается для услуг, длительность которых
	// не помещается в один календарный день
	ErrServiceCrossesMidnight = errors.New("find_slots: service duration crosses midnight")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase.
	// Поиск не имеет побочных эффектов, поэтому вызывающая сторона может
	// безопасно повторить запрос целиком.
	ErrInternal = errors.New("find_slots: internal error")
)
