package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist.repository: entry not found")

	// ErrNoActiveEntries возвращается, когда в группе нет активных записей
	ErrNoActiveEntries = errors.New("waitlist.repository: no active entries in group")

	// ErrStaleStatus возвращается, когда guarded-обновление не затронуло строк:
	// запись уже не в ожидаемом статусе. Вызывающая сторона трактует это
	// как идемпотентный no-op, а не как сбой.
	ErrStaleStatus = errors.New("waitlist.repository: entry is not in the expected status")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waitlist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waitlist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("waitlist.repository: failed to scan row")
)
