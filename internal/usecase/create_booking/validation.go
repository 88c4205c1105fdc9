package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Клиент задается либо идентификатором, либо контактными данными
	if req.CustomerID == nil && req.Customer == nil {
		return fmt.Errorf("%w: either customerID or customer data is required", ErrInvalidInput)
	}
	if req.CustomerID != nil && *req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.CustomerID == nil {
		if strings.TrimSpace(req.Customer.Email) == "" {
			return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
		}
		if strings.TrimSpace(req.Customer.Name) == "" {
			return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
		}
	}

	// Время начала: либо явный timestamp, либо пара дата+время
	if req.StartTime == nil {
		if req.Date == nil || req.Date.IsZero() {
			return fmt.Errorf("%w: either startTime or date with time is required", ErrInvalidInput)
		}
		if req.Time.IsZero() {
			return fmt.Errorf("%w: time is required when date is used", ErrInvalidInput)
		}
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
		}
	}

	if req.Quantity != nil && *req.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	return nil
}

// resolveStartTime вычисляет время начала бронирования.
// Пара дата+время интерпретируется в таймзоне бизнеса.
func resolveStartTime(req *Request, loc *time.Location) (time.Time, error) {
	if req.StartTime != nil {
		return req.StartTime.In(loc), nil
	}
	start, err := req.Time.At(*req.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}
	return start, nil
}

// requestedQuantity возвращает запрошенное количество мест, по умолчанию 1
func requestedQuantity(req *Request) int {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

// effectiveEndTime вычисляет конец бронирования с учетом политики:
// длительность услуги поднимается до min_duration и отклоняется,
// если превышает max_duration.
func effectiveEndTime(start time.Time, service *domain.Service, policy *domain.BookingPolicy) (time.Time, error) {
	minutes, ok := policy.EffectiveDuration(service.DurationMinutes)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: duration %d minutes", ErrDurationNotAllowed, service.DurationMinutes)
	}
	return start.Add(time.Duration(minutes) * time.Minute), nil
}
