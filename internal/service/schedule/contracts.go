package schedule

import (
	"context"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// AvailabilityRepository хранилище слотов расписания
type AvailabilityRepository interface {
	ReplaceDaySlots(ctx context.Context, professionalID int64, date time.Time, slots []domain.TimeSlot) error
}

// BookingRepository хранилище бронирований
type BookingRepository interface {
	GetByProfessionalWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
