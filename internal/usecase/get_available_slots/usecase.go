package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BMS-SchedulingService/internal/availability"
	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	businessstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	businessRepo BusinessRepository
	cache        SlotCache
	calculator   SlotCalculator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	cache SlotCache,
	calculator SlotCalculator,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		cache:        cache,
		calculator:   calculator,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, staff=%d, service=%d, date=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес - его таймзона определяет интерпретацию даты
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessstore.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Слоты из кеша или напрямую из калькулятора
	var slots []domain.Slot
	if req.BypassCache {
		slots, err = uc.calculator.ComputeSlots(ctx, business, req.StaffID, req.Date, req.ServiceID, req.Interval)
	} else {
		slots, err = uc.cache.AvailableSlots(ctx, business, req.StaffID, req.Date, req.ServiceID, req.Interval)
	}
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrStaffNotFound):
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		case errors.Is(err, availability.ErrServiceNotFound):
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		default:
			uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
			return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots for business=%d, staff=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Slots:      slots,
	}, nil
}
