package cancel_booking

import (
	"github.com/m04kA/BMS-SchedulingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
	Notify *bool   `json:"notify,omitempty"` // по умолчанию true
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(businessID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		BusinessID: businessID,
		Reason:     r.Reason,
		Notify:     r.Notify,
	}
}
