package get_schedule

import (
	"context"

	"github.com/m04kA/BMS-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetByStaff(ctx context.Context, businessID, staffID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
