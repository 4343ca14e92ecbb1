package submit_step

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

type ReservationService interface {
	SubmitStep(ctx context.Context, req *models.SubmitStepRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
