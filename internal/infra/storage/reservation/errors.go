package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotTaken возвращается, когда слот уже занят конкурирующим бронированием.
	// Это ожидаемый исход гонки (ClaimConflict), а не сбой — вызывающая
	// сторона обрабатывает его как обычную ветку управления.
	ErrSlotTaken = errors.New("reservation.repository: slot already taken")

	// ErrNotCancellable возвращается при попытке отменить неподтверждённое бронирование
	ErrNotCancellable = errors.New("reservation.repository: reservation is not cancellable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
