package models

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// UpsertPolicyRequest запрос на создание или обновление политики бизнеса
type UpsertPolicyRequest struct {
	BusinessID int64 `json:"businessId"`

	MinDurationMinutes        int  `json:"minDurationMinutes"`
	MaxDurationMinutes        *int `json:"maxDurationMinutes,omitempty"`
	MaxDailyBookings          *int `json:"maxDailyBookings,omitempty"`
	CancellationWindowMinutes int  `json:"cancellationWindowMinutes"`
	MinAdvanceMinutes         *int `json:"minAdvanceMinutes,omitempty"`
	MaxAdvanceDays            *int `json:"maxAdvanceDays,omitempty"`
	UseFixedIntervals         bool `json:"useFixedIntervals"`
	IntervalMinutes           int  `json:"intervalMinutes"`
}

// ToDomainPolicy конвертирует request в domain модель
func (r *UpsertPolicyRequest) ToDomainPolicy() *domain.BookingPolicy {
	return &domain.BookingPolicy{
		BusinessID:                r.BusinessID,
		MinDurationMinutes:        r.MinDurationMinutes,
		MaxDurationMinutes:        r.MaxDurationMinutes,
		MaxDailyBookings:          r.MaxDailyBookings,
		CancellationWindowMinutes: r.CancellationWindowMinutes,
		MinAdvanceMinutes:         r.MinAdvanceMinutes,
		MaxAdvanceDays:            r.MaxAdvanceDays,
		UseFixedIntervals:         r.UseFixedIntervals,
		IntervalMinutes:           r.IntervalMinutes,
	}
}

// PolicyResponse ответ с данными политики бронирования
type PolicyResponse struct {
	ID         int64 `json:"id"`
	BusinessID int64 `json:"businessId"`

	MinDurationMinutes        int  `json:"minDurationMinutes"`
	MaxDurationMinutes        *int `json:"maxDurationMinutes,omitempty"`
	MaxDailyBookings          *int `json:"maxDailyBookings,omitempty"`
	CancellationWindowMinutes int  `json:"cancellationWindowMinutes"`
	MinAdvanceMinutes         *int `json:"minAdvanceMinutes,omitempty"`
	MaxAdvanceDays            *int `json:"maxAdvanceDays,omitempty"`
	UseFixedIntervals         bool `json:"useFixedIntervals"`
	IntervalMinutes           int  `json:"intervalMinutes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}
	return &PolicyResponse{
		ID:                        p.ID,
		BusinessID:                p.BusinessID,
		MinDurationMinutes:        p.MinDurationMinutes,
		MaxDurationMinutes:        p.MaxDurationMinutes,
		MaxDailyBookings:          p.MaxDailyBookings,
		CancellationWindowMinutes: p.CancellationWindowMinutes,
		MinAdvanceMinutes:         p.MinAdvanceMinutes,
		MaxAdvanceDays:            p.MaxAdvanceDays,
		UseFixedIntervals:         p.UseFixedIntervals,
		IntervalMinutes:           p.IntervalMinutes,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}
