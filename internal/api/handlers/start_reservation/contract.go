package start_reservation

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

type ReservationService interface {
	Start(ctx context.Context, req *models.StartRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
