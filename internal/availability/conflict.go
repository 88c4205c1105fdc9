package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// ConflictDetector проверяет пересечения кандидата с существующими
// активными (pending/confirmed) бронированиями мастера.
type ConflictDetector struct {
	bookingRepo BookingRepository
}

// NewConflictDetector создает детектор конфликтов
func NewConflictDetector(bookingRepo BookingRepository) *ConflictDetector {
	return &ConflictDetector{bookingRepo: bookingRepo}
}

// Conflicts проверяет пересечение [start, end) с активными бронированиями
// мастера. excludeID позволяет переносу игнорировать текущее время самого
// бронирования. Интервалы полуоткрытые: соприкасающиеся границы не
// конфликтуют.
func (d *ConflictDetector) Conflicts(ctx context.Context, staffID int64, start, end time.Time, excludeID *int64) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRange, start, end)
	}

	overlapping, err := d.bookingRepo.FindOverlapping(ctx, staffID, start, end, excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: find overlapping bookings: %v", ErrInternal, err)
	}
	return len(overlapping) > 0, nil
}

// conflictsWith проверяет пересечение по уже загруженному списку бронирований.
// Используется калькулятором, чтобы не ходить в БД на каждый кандидат.
func conflictsWith(bookings []*domain.Booking, start, end time.Time, excludeID *int64) bool {
	for _, b := range bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
