package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, businessID int64) (*domain.Business, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	DecrementSpots(ctx context.Context, serviceID int64, quantity int) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, businessID, customerID int64) (*domain.TenantCustomer, error)
	FindByEmail(ctx context.Context, businessID int64, email string) (*domain.TenantCustomer, error)
	Create(ctx context.Context, customer *domain.TenantCustomer) (*domain.TenantCustomer, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) (*domain.BookingPolicy, error)
}

// AvailabilityChecker проверка доступности одного слота
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, business *domain.Business, staffID, serviceID int64, start, end time.Time, excludeBookingID *int64) (bool, error)
}

// Notifier fire-and-forget отправка уведомлений
type Notifier interface {
	Notify(ctx context.Context, event notifyservice.Event, booking *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
