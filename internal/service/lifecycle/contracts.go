package lifecycle

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProfessionalWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, cancellationReason *string) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	AppendHistory(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error)
	GetHistory(ctx context.Context, bookingID int64) ([]*domain.HistoryEntry, error)
}

// PaymentClient интерфейс клиента платежного коллаборатора
type PaymentClient interface {
	Capture(ctx context.Context, bookingID int64, amount float64) error
	Refund(ctx context.Context, bookingID int64, amount float64) error
}

// EventPublisher интерфейс издателя событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.LifecycleEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
