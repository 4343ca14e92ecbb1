package back_step

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

type ReservationService interface {
	Back(ctx context.Context, sessionID string, clientID int64) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
