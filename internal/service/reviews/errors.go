package reviews

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotReviewable отзыв допустим только для завершенного бронирования
	ErrNotReviewable = errors.New("booking is not reviewable")
	// ErrAccessDenied отзыв может оставить только клиент бронирования
	ErrAccessDenied = errors.New("access denied")
	// ErrAlreadyReviewed для бронирования уже существует отзыв
	ErrAlreadyReviewed = errors.New("booking is already reviewed")
	// ErrReviewNotFound отзыв не найден
	ErrReviewNotFound = errors.New("review not found")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
