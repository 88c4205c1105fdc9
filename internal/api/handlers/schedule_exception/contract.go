package schedule_exception

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetException(ctx context.Context, req *models.SetExceptionRequest) error
	RemoveException(ctx context.Context, businessID, staffID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
