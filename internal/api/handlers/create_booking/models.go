package create_booking

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/BMS-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// CustomerData контактные данные клиента для inline-создания
type CustomerData struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// CreateBookingRequest HTTP request model.
// Время начала задается либо startTime (RFC 3339), либо парой
// date + time в таймзоне бизнеса.
type CreateBookingRequest struct {
	StaffID    int64         `json:"staffId"`
	ServiceID  int64         `json:"serviceId"`
	CustomerID *int64        `json:"customerId,omitempty"`
	Customer   *CustomerData `json:"customer,omitempty"`
	StartTime  *time.Time    `json:"startTime,omitempty"`
	Date       *string       `json:"date,omitempty"` // "2026-03-15"
	Time       *string       `json:"time,omitempty"` // "10:00"
	Quantity   *int          `json:"quantity,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
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
func (r *CreateBookingRequest) ToUseCaseRequest(businessID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		BusinessID: businessID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		CustomerID: r.CustomerID,
		StartTime:  r.StartTime,
		Quantity:   r.Quantity,
		Notes:      r.Notes,
	}

	if r.Customer != nil {
		req.Customer = &createBooking.CustomerData{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		}
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
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
