package update_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime != nil && req.Date != nil {
		return fmt.Errorf("%w: startTime and date are mutually exclusive", ErrInvalidInput)
	}

	if req.Date != nil {
		if req.Date.IsZero() {
			return fmt.Errorf("%w: date must not be zero", ErrInvalidInput)
		}
		if req.Time.IsZero() {
			return fmt.Errorf("%w: time is required when date is used", ErrInvalidInput)
		}
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
		}
	}

	if req.Status != nil {
		if _, ok := domain.ParseBookingStatus(*req.Status); !ok {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
	}

	return nil
}

// hasChanges проверяет, что запрос меняет хотя бы одно поле
func hasChanges(req *Request) bool {
	return req.StaffID != nil || req.ServiceID != nil ||
		req.StartTime != nil || req.Date != nil ||
		req.Status != nil || req.Notes != nil
}

// resolveStartTime вычисляет новое время начала, nil если время не меняется
func resolveStartTime(req *Request, loc *time.Location) (*time.Time, error) {
	if req.StartTime != nil {
		t := req.StartTime.In(loc)
		return &t, nil
	}
	if req.Date != nil {
		t, err := req.Time.At(*req.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
		}
		return &t, nil
	}
	return nil, nil
}

// effectiveEndTime вычисляет конец бронирования с учетом политики
func effectiveEndTime(start time.Time, service *domain.Service, policy *domain.BookingPolicy) (time.Time, error) {
	minutes, ok := policy.EffectiveDuration(service.DurationMinutes)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: duration %d minutes", ErrDurationNotAllowed, service.DurationMinutes)
	}
	return start.Add(time.Duration(minutes) * time.Minute), nil
}
