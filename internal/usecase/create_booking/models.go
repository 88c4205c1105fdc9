package create_booking

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// CustomerData контактные данные клиента для inline-создания.
// Используются, когда CustomerID не передан: клиент ищется по email
// и создается при отсутствии.
type CustomerData struct {
	Name  string
	Email string
	Phone *string
}

// Request модель запроса на создание бронирования.
// Время начала задается либо явным StartTime, либо парой Date+Time,
// интерпретируемой в таймзоне бизнеса.
type Request struct {
	BusinessID int64 // ID бизнеса (tenant)
	StaffID    int64 // ID сотрудника
	ServiceID  int64 // ID услуги

	CustomerID *int64        // ID существующего клиента
	Customer   *CustomerData // Либо контактные данные для find-or-create

	StartTime *time.Time       // Явное время начала
	Date      *time.Time       // Либо дата...
	Time      types.TimeString // ...и время ("10:00") в таймзоне бизнеса

	Quantity *int    // Количество мест для experience-услуг (по умолчанию 1)
	Notes    *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
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

	// Денормализованные данные
	ServiceName string
	StaffName   *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
