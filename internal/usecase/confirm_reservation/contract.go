package confirm_reservation

import (
	"context"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// ReservationWorkflow интерфейс сервиса пошагового мастера резервирования
type ReservationWorkflow interface {
	// CompletedDraft возвращает черновик, готовый к подтверждению
	CompletedDraft(ctx context.Context, sessionID string, clientID int64) (*domain.DraftBooking, error)
	// Finalize удаляет сессию и снимает удержание слота
	Finalize(ctx context.Context, draft *domain.DraftBooking)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountActiveBySlot(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (int, error)
	AppendHistory(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error)
}

// EventPublisher интерфейс издателя событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.LifecycleEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
