package confirm_reservation

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия резервирования не найдена или истекла
	ErrSessionNotFound = errors.New("reservation session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrIncompleteDraft возвращается, когда черновик не прошел все шаги мастера
	ErrIncompleteDraft = errors.New("reservation draft is incomplete")

	// ErrSlotUnavailable возвращается, когда слот занят или удержание истекло
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
