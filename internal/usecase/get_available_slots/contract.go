package get_available_slots

import (
	"context"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// AvailabilityRepository интерфейс репозитория слотов расписания
type AvailabilityRepository interface {
	// ListByDateRange получает слоты профессионала в диапазоне дат
	// с уже вычисленным состоянием open/booked
	ListByDateRange(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.TimeSlot, error)
}

// HoldStore интерфейс хранилища удержаний слотов
type HoldStore interface {
	IsHeld(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
