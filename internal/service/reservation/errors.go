package reservation

import "errors"

var (
	// ErrSessionNotFound сессия резервирования не найдена или истекла
	ErrSessionNotFound = errors.New("reservation session not found")
	// ErrAccessDenied сессия принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidStep переданный шаг не совпадает с текущим шагом сессии
	ErrInvalidStep = errors.New("invalid workflow step")
	// ErrSlotUnavailable слот занят, удержан другим клиентом или удержание истекло
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrIncompleteDraft черновик не прошел все шаги мастера
	ErrIncompleteDraft = errors.New("reservation draft is incomplete")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
