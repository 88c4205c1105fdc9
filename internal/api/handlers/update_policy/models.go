package update_policy

import (
	"github.com/m04kA/BMS-SchedulingService/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
type UpdatePolicyRequest struct {
	MinDurationMinutes        int  `json:"minDurationMinutes"`
	MaxDurationMinutes        *int `json:"maxDurationMinutes,omitempty"`
	MaxDailyBookings          *int `json:"maxDailyBookings,omitempty"`
	CancellationWindowMinutes int  `json:"cancellationWindowMinutes"`
	MinAdvanceMinutes         *int `json:"minAdvanceMinutes,omitempty"`
	MaxAdvanceDays            *int `json:"maxAdvanceDays,omitempty"`
	UseFixedIntervals         bool `json:"useFixedIntervals"`
	IntervalMinutes           int  `json:"intervalMinutes"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdatePolicyRequest) ToServiceRequest(businessID int64) *models.UpsertPolicyRequest {
	return &models.UpsertPolicyRequest{
		BusinessID:                businessID,
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
