package waitlist

import "errors"

var (
	// ErrEntryNotFound - запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist service: entry not found")
	// ErrAccessDenied - запись принадлежит другому клиенту
	ErrAccessDenied = errors.New("waitlist service: access denied")
	// ErrOfferNotActive - у записи нет действующего предложения
	ErrOfferNotActive = errors.New("waitlist service: offer is not active")
	// ErrOfferExpired - окно предложения истекло
	ErrOfferExpired = errors.New("waitlist service: offer expired")
	// ErrSlotUnavailable - слот успели занять, предложение снято
	ErrSlotUnavailable = errors.New("waitlist service: slot is no longer available")
	// ErrInvalidTransition - операция неприменима к текущему статусу записи
	ErrInvalidTransition = errors.New("waitlist service: invalid status transition")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("waitlist service: invalid input")
	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("waitlist service: internal error")
)
