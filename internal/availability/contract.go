package availability

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
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	// GetByBusiness возвращает nil без ошибки, если политика не настроена
	GetByBusiness(ctx context.Context, businessID int64) (*domain.BookingPolicy, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveForDay(ctx context.Context, staffID int64, dayStart, dayEnd time.Time) ([]*domain.Booking, error)
	FindOverlapping(ctx context.Context, staffID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	CountActiveForDay(ctx context.Context, staffID int64, dayStart, dayEnd time.Time) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
