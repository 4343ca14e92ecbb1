package get_booking

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

type LifecycleService interface {
	GetByID(ctx context.Context, bookingID int64, actorID int64, actorRole string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
