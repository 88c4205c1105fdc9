package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, businessID int64) (*domain.Business, error)
}

// SlotCache кеширующий источник слотов
type SlotCache interface {
	AvailableSlots(ctx context.Context, business *domain.Business, staffID int64, date time.Time, serviceID int64, intervalHint *int) ([]domain.Slot, error)
}

// SlotCalculator прямой расчет слотов в обход кеша
type SlotCalculator interface {
	ComputeSlots(ctx context.Context, business *domain.Business, staffID int64, date time.Time, serviceID int64, intervalHint *int) ([]domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
