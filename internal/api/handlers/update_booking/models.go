package update_booking

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	updateBooking "github.com/m04kA/BMS-SchedulingService/internal/usecase/update_booking"
	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// UpdateBookingRequest HTTP request model. Все поля опциональны,
// отсутствующее поле остается без изменений.
type UpdateBookingRequest struct {
	StaffID   *int64     `json:"staffId,omitempty"`
	ServiceID *int64     `json:"serviceId,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	Date      *string    `json:"date,omitempty"` // "2026-03-15"
	Time      *string    `json:"time,omitempty"` // "10:00"
	Status    *string    `json:"status,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64 `json:"id"`
	BusinessID int64 `json:"businessId"`
	StaffID    int64 `json:"staffId"`
	ServiceID  int64 `json:"serviceId"`
	CustomerID int64 `json:"customerId"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`

	Quantity       int     `json:"quantity"`
	Amount         float64 `json:"amount"`
	OriginalAmount float64 `json:"originalAmount"`

	ServiceName string  `json:"serviceName"`
	StaffName   *string `json:"staffName,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(businessID, bookingID int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BusinessID: businessID,
		BookingID:  bookingID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		StartTime:  r.StartTime,
		Status:     r.Status,
		Notes:      r.Notes,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.Time != nil {
		startTime, err := types.NewTimeStringFromString(*r.Time)
		if err != nil {
			return nil, err
		}
		req.Time = startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		BusinessID:     resp.BusinessID,
		StaffID:        resp.StaffID,
		ServiceID:      resp.ServiceID,
		CustomerID:     resp.CustomerID,
		StartTime:      resp.StartTime,
		EndTime:        resp.EndTime,
		Status:         resp.Status,
		Quantity:       resp.Quantity,
		Amount:         resp.Amount,
		OriginalAmount: resp.OriginalAmount,
		ServiceName:    resp.ServiceName,
		StaffName:      resp.StaffName,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt,
		UpdatedAt:      resp.UpdatedAt,
	}
}
