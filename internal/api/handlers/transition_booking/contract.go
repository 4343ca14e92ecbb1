package transition_booking

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

type LifecycleService interface {
	RequestTransition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
