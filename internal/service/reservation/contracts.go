package reservation

import (
	"context"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// SessionStore хранилище сессий резервирования
type SessionStore interface {
	Save(ctx context.Context, draft *domain.DraftBooking) error
	Get(ctx context.Context, sessionID string) (*domain.DraftBooking, error)
	Delete(ctx context.Context, sessionID string) error
}

// HoldStore хранилище удержаний слотов
type HoldStore interface {
	Acquire(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.SlotHold, error)
	Release(ctx context.Context, hold *domain.SlotHold) error
	IsHeldBy(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString, token string) (bool, error)
}

// AvailabilityRepository хранилище слотов расписания
type AvailabilityRepository interface {
	GetSlot(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
