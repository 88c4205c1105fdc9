package get_policy

import (
	"context"

	"github.com/m04kA/BMS-SchedulingService/internal/service/policy/models"
)

type PolicyService interface {
	GetByBusiness(ctx context.Context, businessID int64) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
