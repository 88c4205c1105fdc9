package domain

// Значения по умолчанию, когда у бизнеса нет политики бронирования
const (
	DefaultIntervalMinutes = 30
	DefaultQuantity        = 1
)

// Константы бизнес-валидации
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MinIntervalMinutes        = 5
	MaxIntervalMinutes        = 240
	MinAdvanceBookingDays     = 0
	MaxAdvanceBookingDays     = 365 // 1 year
	MaxMinAdvanceMinutes      = 10080 // 1 week
	MaxDailyBookingsLimit     = 100
	MaxCancellationReasonLen  = 500
)

// Константы форматов времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающие время мастера.
// Используются при проверке пересечений и подсчете дневного лимита.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
