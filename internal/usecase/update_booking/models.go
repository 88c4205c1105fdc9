package update_booking

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// Request модель запроса на обновление бронирования.
// Все изменяемые поля опциональны, nil означает "оставить как есть".
type Request struct {
	BusinessID int64 // ID бизнеса (tenant)
	BookingID  int64 // ID бронирования

	StaffID   *int64 // Перенос к другому сотруднику
	ServiceID *int64 // Смена услуги (пересчитывает время окончания)

	StartTime *time.Time       // Новое время начала (явный timestamp)
	Date      *time.Time       // Либо новая дата...
	Time      types.TimeString // ...и время в таймзоне бизнеса

	Status *string // Перевод статуса (pending -> confirmed и т.п.)
	Notes  *string
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ServiceID  int64
	CustomerID int64

	StartTime time.Time
	EndTime   time.Time
	Status    string

	Quantity       int
	Amount         float64
	OriginalAmount float64

	ServiceName string
	StaffName   *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
