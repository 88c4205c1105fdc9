package schedule

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
}

// ScheduleRepository интерфейс репозитория шаблонов расписаний
type ScheduleRepository interface {
	GetByStaff(ctx context.Context, staffID int64) (*domain.ScheduleTemplate, error)
	ReplaceWeekly(ctx context.Context, staffID int64, weekly [7][]domain.TimeWindow) error
	SetException(ctx context.Context, staffID int64, date time.Time, windows []domain.TimeWindow) error
	RemoveException(ctx context.Context, staffID int64, date time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
