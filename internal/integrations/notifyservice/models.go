package notifyservice

import "time"

// Event тип уведомления
type Event string

const (
	EventBookingCreated   Event = "booking.created"
	EventBookingUpdated   Event = "booking.updated"
	EventBookingCancelled Event = "booking.cancelled"
)

// Notification payload, отправляемый в NotificationService
type Notification struct {
	Event      Event     `json:"event"`
	BusinessID int64     `json:"businessId"`
	BookingID  int64     `json:"bookingId"`
	CustomerID int64     `json:"customerId"`
	StaffID    int64     `json:"staffId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Reason     *string   `json:"reason,omitempty"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
