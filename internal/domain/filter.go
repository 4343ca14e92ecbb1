package domain

import "time"

// BookingsFilter фильтр для выборки бронирований профессионала
type BookingsFilter struct {
	ProfessionalID   int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}
