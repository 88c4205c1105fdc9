package slotcache

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// SlotComputer источник слотов при промахе кеша (обычно availability.Calculator).
// SlotStep возвращает эффективный шаг генерации для ключа кеша: nil hint и
// явный hint, равный шагу, должны попадать в один ключ.
type SlotComputer interface {
	ComputeSlots(ctx context.Context, business *domain.Business, staffID int64, date time.Time, serviceID int64, intervalHint *int) ([]domain.Slot, error)
	SlotStep(ctx context.Context, business *domain.Business, serviceID int64, intervalHint *int) (int, error)
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

// Metrics интерфейс для записи hit/miss/error метрик кеша
type Metrics interface {
	ObserveCache(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// noopMetrics используется, когда сбор метрик выключен
type noopMetrics struct{}

func (noopMetrics) ObserveCache(string) {}
