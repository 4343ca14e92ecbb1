package schedule

import "errors"

var (
	// ErrAccessDenied расписание может менять только сам профессионал
	ErrAccessDenied = errors.New("access denied")
	// ErrSlotConflict нельзя убрать слот, на который есть активное бронирование
	ErrSlotConflict = errors.New("slot has an active booking")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
