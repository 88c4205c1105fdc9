package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	staffRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/BMS-SchedulingService/internal/service/schedule/models"
)

// Service сервис для работы с шаблонами расписаний сотрудников
type Service struct {
	staffRepo    StaffRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	staffRepo StaffRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		staffRepo:    staffRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetByStaff получает шаблон расписания сотрудника
func (s *Service) GetByStaff(ctx context.Context, businessID, staffID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetByStaff: fetching schedule for staff=%d, business=%d", staffID, businessID)

	if err := s.checkStaff(ctx, businessID, staffID, "GetByStaff"); err != nil {
		return nil, err
	}

	template, err := s.scheduleRepo.GetByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetByStaff: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetByStaff - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(template), nil
}

// UpdateWeekly полностью заменяет недельное расписание сотрудника.
// Отсутствующий в запросе день недели становится выходным.
func (s *Service) UpdateWeekly(ctx context.Context, req *models.UpdateWeeklyRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateWeekly: updating schedule for staff=%d, business=%d", req.StaffID, req.BusinessID)

	if err := s.checkStaff(ctx, req.BusinessID, req.StaffID, "UpdateWeekly"); err != nil {
		return nil, err
	}

	weekly, err := req.ToWeekly()
	if err != nil {
		s.logger.Warn("UpdateWeekly: invalid schedule for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.ReplaceWeekly(ctx, req.StaffID, weekly); err != nil {
		s.logger.Error("UpdateWeekly: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: UpdateWeekly - repository error: %v", ErrInternal, err)
	}

	template, err := s.scheduleRepo.GetByStaff(ctx, req.StaffID)
	if err != nil {
		s.logger.Error("UpdateWeekly: failed to reload schedule for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: UpdateWeekly - failed to reload schedule: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeekly: successfully updated schedule for staff=%d", req.StaffID)
	return models.FromDomainTemplate(template), nil
}

// SetException устанавливает исключение на конкретную дату.
// Пустой список окон означает выходной день: исключение перекрывает
// недельный шаблон целиком.
func (s *Service) SetException(ctx context.Context, req *models.SetExceptionRequest) error {
	s.logger.Info("SetException: setting exception for staff=%d on %s",
		req.StaffID, req.Date.Format("2006-01-02"))

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkStaff(ctx, req.BusinessID, req.StaffID, "SetException"); err != nil {
		return err
	}

	windows, err := models.ToDomainWindows(req.Windows)
	if err != nil {
		s.logger.Warn("SetException: invalid windows for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.scheduleRepo.SetException(ctx, req.StaffID, req.Date, windows); err != nil {
		s.logger.Error("SetException: repository error for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: SetException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetException: successfully set exception for staff=%d", req.StaffID)
	return nil
}

// RemoveException убирает исключение, возвращая дате недельный шаблон
func (s *Service) RemoveException(ctx context.Context, businessID, staffID int64, date time.Time) error {
	s.logger.Info("RemoveException: removing exception for staff=%d on %s",
		staffID, date.Format("2006-01-02"))

	if err := s.checkStaff(ctx, businessID, staffID, "RemoveException"); err != nil {
		return err
	}

	if err := s.scheduleRepo.RemoveException(ctx, staffID, date); err != nil {
		s.logger.Error("RemoveException: repository error for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: RemoveException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveException: successfully removed exception for staff=%d", staffID)
	return nil
}

// checkStaff проверяет, что сотрудник существует и принадлежит бизнесу
func (s *Service) checkStaff(ctx context.Context, businessID, staffID int64, op string) error {
	if businessID <= 0 || staffID <= 0 {
		return fmt.Errorf("%w: businessID and staffID must be positive", ErrInvalidInput)
	}
	if _, err := s.staffRepo.GetByID(ctx, businessID, staffID); err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found in business id=%d", op, staffID, businessID)
			return ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, staffID, err)
		return fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
	}
	return nil
}
