package policy

import (
	"context"
	"errors"
	"fmt"

	businessRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	policyRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/BMS-SchedulingService/internal/service/policy/models"
)

// Service сервис для работы с политиками бронирования
type Service struct {
	businessRepo BusinessRepository
	policyRepo   PolicyRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	businessRepo BusinessRepository,
	policyRepo PolicyRepository,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		policyRepo:   policyRepo,
		logger:       logger,
	}
}

// GetByBusiness получает политику бронирования бизнеса
func (s *Service) GetByBusiness(ctx context.Context, businessID int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetByBusiness: fetching policy for business=%d", businessID)

	policy, err := s.policyRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("GetByBusiness: policy for business=%d not found", businessID)
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("GetByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetByBusiness - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// Upsert создает или заменяет политику бронирования бизнеса.
// У бизнеса может быть не более одной активной политики.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: upserting policy for business=%d", req.BusinessID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	// Проверяем существование бизнеса
	if _, err := s.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("Upsert: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Upsert: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	policy := req.ToDomainPolicy()
	if err := policy.Validate(); err != nil {
		s.logger.Warn("Upsert: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Upsert: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved policy id=%d for business=%d", saved.ID, req.BusinessID)
	return models.FromDomainPolicy(saved), nil
}

// Delete удаляет политику бизнеса. Отсутствие политики означает
// отсутствие ограничений на бронирование.
func (s *Service) Delete(ctx context.Context, businessID int64) error {
	s.logger.Info("Delete: deleting policy for business=%d", businessID)

	if err := s.policyRepo.Delete(ctx, businessID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Delete: policy for business=%d not found", businessID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted policy for business=%d", businessID)
	return nil
}
