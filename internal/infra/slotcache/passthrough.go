package slotcache

import (
	"context"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// Passthrough реализует интерфейс кеша без Redis: каждый запрос
// вычисляется калькулятором заново. Используется, когда кеш
// выключен в конфигурации.
type Passthrough struct {
	computer SlotComputer
}

// NewPassthrough создает «кеш», который ничего не кеширует
func NewPassthrough(computer SlotComputer) *Passthrough {
	return &Passthrough{computer: computer}
}

// AvailableSlots всегда вычисляет слоты напрямую
func (p *Passthrough) AvailableSlots(
	ctx context.Context,
	business *domain.Business,
	staffID int64,
	date time.Time,
	serviceID int64,
	intervalHint *int,
) ([]domain.Slot, error) {
	return p.computer.ComputeSlots(ctx, business, staffID, date, serviceID, intervalHint)
}
