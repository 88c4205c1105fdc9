package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
	bookingRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/BMS-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	policyRepo   PolicyRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	policyRepo PolicyRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		policyRepo:   policyRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID в рамках бизнеса.
// Бронирование чужого тенанта неотличимо от несуществующего.
func (s *Service) GetByID(ctx context.Context, businessID, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for business=%d", bookingID, businessID)

	booking, err := s.loadBooking(ctx, businessID, bookingID, "GetByID")
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// GetStaffBookings получает бронирования бизнеса с гибкой фильтрацией.
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включению
// неактивных бронирований.
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStaffBookings: fetching bookings for business=%d, staff=%v, status=%v",
		req.BusinessID, req.StaffID, req.Status)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStaffBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for business=%d",
		len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Если политика бизнеса задает cancellation_window и до начала осталось
// меньше этого окна, отмена отклоняется, статус не меняется. Для
// experience-услуг отмена возвращает места в общую емкость.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d for business=%d", bookingID, req.BusinessID)

	var cancelled *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.loadBooking(txCtx, req.BusinessID, bookingID, "Cancel")
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		// Проверяем окно отмены. Отсутствие политики или нулевое окно
		// означает, что отмена разрешена всегда.
		policy, err := s.policyRepo.GetByBusiness(txCtx, req.BusinessID)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("Cancel: failed to get booking policy: %v", err)
			return fmt.Errorf("%w: Cancel - failed to get policy: %v", ErrInternal, err)
		}
		if policy != nil && !policy.AllowsCancellationAt(s.timeProvider.Now(), booking.StartTime) {
			s.logger.Warn("Cancel: booking id=%d is within cancellation window of %d minutes",
				bookingID, policy.CancellationWindowMinutes)
			return &CancellationWindowError{WindowMinutes: policy.CancellationWindowMinutes}
		}

		// UPDATE с предикатом по активным статусам: конкурентная отмена
		// того же бронирования получает 0 строк, откатывается и не
		// возвращает места повторно
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotActive) {
				s.logger.Warn("Cancel: booking id=%d was cancelled concurrently", bookingID)
				return ErrCannotCancel
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Возвращаем места experience-услуги в общую емкость
		service, err := s.serviceRepo.GetByID(txCtx, req.BusinessID, booking.ServiceID)
		if err != nil {
			s.logger.Error("Cancel: failed to get service id=%d: %v", booking.ServiceID, err)
			return fmt.Errorf("%w: Cancel - failed to get service: %v", ErrInternal, err)
		}
		if service.IsExperience() {
			if err := s.serviceRepo.IncrementSpots(txCtx, booking.ServiceID, booking.Quantity); err != nil {
				s.logger.Error("Cancel: failed to restore spots for service id=%d: %v", booking.ServiceID, err)
				return fmt.Errorf("%w: Cancel - failed to restore spots: %v", ErrInternal, err)
			}
			s.logger.Info("Cancel: restored %d spots for service id=%d", booking.Quantity, booking.ServiceID)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Уведомление после коммита, ошибки не откатывают отмену
	if req.ShouldNotify() && s.notifier != nil {
		cancelled.Status = domain.StatusCancelled
		cancelled.CancellationReason = req.Reason
		if err := s.notifier.Notify(ctx, notifyservice.EventBookingCancelled, cancelled); err != nil {
			s.logger.Warn("Cancel: failed to send notification for booking id=%d: %v", bookingID, err)
		}
	}

	return nil
}

// loadBooking загружает бронирование с проверкой принадлежности бизнесу
func (s *Service) loadBooking(ctx context.Context, businessID, bookingID int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if booking.BusinessID != businessID {
		s.logger.Warn("%s: booking id=%d does not belong to business id=%d", op, bookingID, businessID)
		return nil, ErrBookingNotFound
	}
	return booking, nil
}
