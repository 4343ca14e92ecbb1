package paymentservice

import "errors"

var (
	// ErrCaptureDeclined возвращается, когда платежный сервис отклонил списание
	ErrCaptureDeclined = errors.New("paymentservice client: capture declined")

	// ErrRefundDeclined возвращается, когда платежный сервис отклонил возврат
	ErrRefundDeclined = errors.New("paymentservice client: refund declined")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
