package get_booking_history

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

type LifecycleService interface {
	GetHistory(ctx context.Context, bookingID int64) (*models.HistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
