package domain

import "time"

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking подтвержденная запись на время мастера.
// EndTime всегда равен StartTime плюс эффективная длительность услуги.
// Бронирования физически не удаляются, отмена - это переход статуса.
type Booking struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ServiceID  int64
	CustomerID int64

	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	Quantity       int // для experience-услуг, иначе 1
	Amount         float64
	OriginalAmount float64

	// Денормализованные данные для истории
	ServiceName string
	StaffName   *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// validTransitions допустимые переходы статусов.
// cancelled и completed - терминальные состояния.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransitionTo проверяет допустимость перехода в целевой статус
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range validTransitions[b.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsActive возвращает true, если бронирование занимает время мастера
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated возвращает true, если бронирование можно изменить
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Overlaps проверяет пересечение интервала [StartTime, EndTime)
// с [start, end). Соприкасающиеся границы не считаются пересечением.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// ParseBookingStatus валидирует сырую строку статуса
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// StaffBookingsFilter фильтр для выборки бронирований мастера
type StaffBookingsFilter struct {
	BusinessID      int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool // включать ли отмененные и завершенные
}
