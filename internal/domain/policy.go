package domain

import (
	"fmt"
	"time"
)

// BookingPolicy ограничения бронирования на уровне бизнеса.
// У бизнеса не более одной активной политики; nil-политика означает
// отсутствие ограничений.
type BookingPolicy struct {
	ID         int64
	BusinessID int64

	MinDurationMinutes        int  // 0 = no lower bound
	MaxDurationMinutes        *int // nil = no upper bound
	MaxDailyBookings          *int // per staff member per day, nil = unlimited
	CancellationWindowMinutes int  // 0 = cancellation always allowed
	MinAdvanceMinutes         *int // nil = only plain past-time filtering
	MaxAdvanceDays            *int // nil = unlimited
	UseFixedIntervals         bool
	IntervalMinutes           int // шаг сетки при UseFixedIntervals, иначе hint по умолчанию

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDuration клампит длительность услуги к границам политики.
// Возвращает ok=false, когда длительность превышает максимум: услуга с
// фиксированной длительностью выше максимума не может быть предложена.
func (p *BookingPolicy) EffectiveDuration(serviceDurationMinutes int) (int, bool) {
	if p == nil {
		return serviceDurationMinutes, true
	}
	if p.MaxDurationMinutes != nil && serviceDurationMinutes > *p.MaxDurationMinutes {
		return 0, false
	}
	if serviceDurationMinutes < p.MinDurationMinutes {
		return p.MinDurationMinutes, true
	}
	return serviceDurationMinutes, true
}

// StepMinutes разрешает шаг генерации слотов: фиксированная сетка
// перекрывает hint вызывающего, hint перекрывает эффективную длительность.
func (p *BookingPolicy) StepMinutes(intervalHint *int, effectiveDuration int) int {
	if p != nil && p.UseFixedIntervals && p.IntervalMinutes > 0 {
		return p.IntervalMinutes
	}
	if intervalHint != nil && *intervalHint > 0 {
		return *intervalHint
	}
	return effectiveDuration
}

// CancellationWindow возвращает окно отмены как time.Duration
func (p *BookingPolicy) CancellationWindow() time.Duration {
	if p == nil {
		return 0
	}
	return time.Duration(p.CancellationWindowMinutes) * time.Minute
}

// AllowsCancellationAt проверяет, можно ли в момент now отменить
// бронирование, начинающееся в startTime.
func (p *BookingPolicy) AllowsCancellationAt(now, startTime time.Time) bool {
	window := p.CancellationWindow()
	if window == 0 {
		return true
	}
	return !now.After(startTime.Add(-window))
}

// WithinAdvanceWindow проверяет, что date не дальше MaxAdvanceDays от
// сегодня. Оба аргумента сравниваются с точностью до дня в одной таймзоне.
func (p *BookingPolicy) WithinAdvanceWindow(date, now time.Time) bool {
	if p == nil || p.MaxAdvanceDays == nil {
		return true
	}
	maxDate := truncateToDay(now).AddDate(0, 0, *p.MaxAdvanceDays)
	return !truncateToDay(date).After(maxDate)
}

// Validate проверяет политику на соответствие бизнес-ограничениям
func (p *BookingPolicy) Validate() error {
	if p.MinDurationMinutes < 0 {
		return fmt.Errorf("minDurationMinutes must not be negative")
	}
	if p.MaxDurationMinutes != nil {
		if *p.MaxDurationMinutes <= 0 || *p.MaxDurationMinutes > MaxServiceDurationMinutes {
			return fmt.Errorf("maxDurationMinutes must be in range 1..%d", MaxServiceDurationMinutes)
		}
		if p.MinDurationMinutes > *p.MaxDurationMinutes {
			return fmt.Errorf("minDurationMinutes must not exceed maxDurationMinutes")
		}
	}
	if p.MaxDailyBookings != nil && (*p.MaxDailyBookings <= 0 || *p.MaxDailyBookings > MaxDailyBookingsLimit) {
		return fmt.Errorf("maxDailyBookings must be in range 1..%d", MaxDailyBookingsLimit)
	}
	if p.CancellationWindowMinutes < 0 {
		return fmt.Errorf("cancellationWindowMinutes must not be negative")
	}
	if p.MinAdvanceMinutes != nil && (*p.MinAdvanceMinutes < 0 || *p.MinAdvanceMinutes > MaxMinAdvanceMinutes) {
		return fmt.Errorf("minAdvanceMinutes must be in range 0..%d", MaxMinAdvanceMinutes)
	}
	if p.MaxAdvanceDays != nil && (*p.MaxAdvanceDays < MinAdvanceBookingDays || *p.MaxAdvanceDays > MaxAdvanceBookingDays) {
		return fmt.Errorf("maxAdvanceDays must be in range %d..%d", MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	if p.UseFixedIntervals && p.IntervalMinutes <= 0 {
		return fmt.Errorf("intervalMinutes is required when fixed intervals are enabled")
	}
	if p.IntervalMinutes != 0 && (p.IntervalMinutes < MinIntervalMinutes || p.IntervalMinutes > MaxIntervalMinutes) {
		return fmt.Errorf("intervalMinutes must be in range %d..%d", MinIntervalMinutes, MaxIntervalMinutes)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
