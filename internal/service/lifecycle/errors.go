package lifecycle

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrIllegalTransition возвращается, когда запрошенный переход статуса
	// отсутствует в таблице переходов
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnauthorized возвращается, когда роль актора не допускает запрошенный переход,
	// независимо от того, легален ли переход для другой роли
	ErrUnauthorized = errors.New("actor role is not allowed to perform this transition")

	// ErrMissingReason возвращается, когда переход требует причину/сообщение, а оно не передано
	ErrMissingReason = errors.New("transition requires a reason")

	// ErrSideEffectFailed возвращается, когда сторонний эффект перехода (списание, возврат)
	// завершился ошибкой; переход при этом откатывается целиком
	ErrSideEffectFailed = errors.New("transition side effect failed")

	// ErrAccessDenied возвращается, когда актор не является стороной бронирования
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle service: internal error")
)
