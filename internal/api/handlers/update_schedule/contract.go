package update_schedule

import (
	"context"

	"github.com/proserv/PS-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceDay(ctx context.Context, req *models.ReplaceDayRequest) (*models.ReplaceDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
