package release_slot

import "errors"

var (
	// ErrReservationNotFound - бронирование не найдено
	ErrReservationNotFound = errors.New("release_slot usecase: reservation not found")
	// ErrAccessDenied - бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("release_slot usecase: access denied")
	// ErrNotCancellable - бронирование уже отменено
	ErrNotCancellable = errors.New("release_slot usecase: reservation is not cancellable")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("release_slot usecase: invalid input")
	// ErrInternal - внутренняя ошибка
	ErrInternal = errors.New("release_slot usecase: internal error")
)
