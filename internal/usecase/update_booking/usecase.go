package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
	bookingstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/booking"
	businessstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	servicestore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/service"
	staffstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
)

// UseCase use case для обновления бронирования
type UseCase struct {
	businessRepo BusinessRepository
	staffRepo    StaffRepository
	serviceRepo  ServiceRepository
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	availability AvailabilityChecker
	notifier     Notifier
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	availability AvailabilityChecker,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		staffRepo:    staffRepo,
		serviceRepo:  serviceRepo,
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		availability: availability,
		notifier:     notifier,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования.
// Перенос времени, смена сотрудника или услуги перепроверяют доступность
// (исключая само бронирование) в той же сериализуемой транзакции, что и
// запись. При конфликте бронирование остается без изменений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: business=%d, booking=%d", req.BusinessID, req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}
	if !hasChanges(req) {
		uc.logger.Warn("UpdateBooking: no fields to update for booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	// 2. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessstore.ErrBusinessNotFound) {
			uc.logger.Warn("UpdateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Политика бронирования: отсутствие политики = отсутствие ограничений
	policy, err := uc.policyRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, policystore.ErrPolicyNotFound) {
		uc.logger.Error("UpdateBooking: failed to get booking policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get booking policy: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем текущее бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingstore.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		// Бронирование чужого тенанта неотличимо от несуществующего
		if booking.BusinessID != req.BusinessID {
			uc.logger.Warn("UpdateBooking: booking id=%d does not belong to business id=%d", req.BookingID, req.BusinessID)
			return ErrBookingNotFound
		}

		// 4.2. Отмененные и завершенные бронирования не редактируются
		if !booking.CanBeUpdated() {
			uc.logger.Warn("UpdateBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrBookingNotEditable
		}

		// 4.3. Перевод статуса по машине состояний. Отмена через update
		// запрещена: она обошла бы окно отмены и возврат мест.
		if req.Status != nil {
			target, _ := domain.ParseBookingStatus(*req.Status)
			if target == domain.StatusCancelled {
				uc.logger.Warn("UpdateBooking: cancellation of booking id=%d requested via update", booking.ID)
				return ErrCancelViaUpdate
			}
			if target != booking.Status {
				if !booking.CanTransitionTo(target) {
					uc.logger.Warn("UpdateBooking: transition %s -> %s is not allowed for booking id=%d",
						booking.Status, target, booking.ID)
					return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, booking.Status, target)
				}
				booking.Status = target
			}
		}

		// 4.4. Смена сотрудника
		staffChanged := req.StaffID != nil && *req.StaffID != booking.StaffID
		if staffChanged {
			staff, err := uc.staffRepo.GetByID(txCtx, req.BusinessID, *req.StaffID)
			if err != nil {
				if errors.Is(err, staffstore.ErrStaffNotFound) {
					uc.logger.Warn("UpdateBooking: staff id=%d not found", *req.StaffID)
					return ErrStaffNotFound
				}
				uc.logger.Error("UpdateBooking: failed to get staff id=%d: %v", *req.StaffID, err)
				return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
			}
			if !staff.Active {
				uc.logger.Warn("UpdateBooking: staff id=%d is inactive", staff.ID)
				return ErrStaffNotFound
			}
			booking.StaffID = staff.ID
			booking.StaffName = &staff.Name
		}

		// 4.5. Смена услуги - пересчитывает длительность и денормализацию.
		// Цена не пересчитывается: скидки применяет внешний сервис.
		serviceID := booking.ServiceID
		if req.ServiceID != nil {
			serviceID = *req.ServiceID
		}
		serviceChanged := serviceID != booking.ServiceID

		// 4.6. Новое время начала (если меняется)
		newStart, err := resolveStartTime(req, business.Location())
		if err != nil {
			uc.logger.Warn("UpdateBooking: %v", err)
			return err
		}
		timeChanged := newStart != nil

		if serviceChanged || timeChanged || staffChanged {
			service, err := uc.serviceRepo.GetByID(txCtx, req.BusinessID, serviceID)
			if err != nil {
				if errors.Is(err, servicestore.ErrServiceNotFound) {
					uc.logger.Warn("UpdateBooking: service id=%d not found", serviceID)
					return ErrServiceNotFound
				}
				uc.logger.Error("UpdateBooking: failed to get service id=%d: %v", serviceID, err)
				return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
			}

			staff, err := uc.staffRepo.GetByID(txCtx, req.BusinessID, booking.StaffID)
			if err != nil {
				uc.logger.Error("UpdateBooking: failed to get staff id=%d: %v", booking.StaffID, err)
				return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
			}
			if !staff.CanPerform(serviceID) {
				uc.logger.Warn("UpdateBooking: staff id=%d does not provide service id=%d", staff.ID, serviceID)
				return ErrStaffNotQualified
			}

			start := booking.StartTime.In(business.Location())
			if timeChanged {
				start = *newStart
			}
			end := booking.EndTime
			if timeChanged || serviceChanged {
				end, err = effectiveEndTime(start, service, policy)
				if err != nil {
					uc.logger.Warn("UpdateBooking: %v", err)
					return err
				}
			}

			// 4.7. Проверяем доступность нового интервала, исключая
			// собственное бронирование
			available, err := uc.availability.IsAvailable(txCtx, business, booking.StaffID, serviceID, start, end, &booking.ID)
			if err != nil {
				uc.logger.Error("UpdateBooking: availability check failed: %v", err)
				return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
			}
			if !available {
				uc.logger.Warn("UpdateBooking: time is not available for booking id=%d", booking.ID)
				return ErrTimeNotAvailable
			}

			booking.ServiceID = serviceID
			if serviceChanged {
				booking.ServiceName = service.Name
			}
			booking.StartTime = start
			booking.EndTime = end
		}

		if req.Notes != nil {
			booking.Notes = req.Notes
		}

		// 4.8. Сохраняем изменения
		updated, err := uc.bookingRepo.Update(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingstore.ErrSlotTaken) {
				return ErrTimeNotAvailable
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d", result.ID)

	// 5. Уведомление после коммита, ошибки не влияют на результат
	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, notifyservice.EventBookingUpdated, result); err != nil {
			uc.logger.Warn("UpdateBooking: failed to send notification for booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		BusinessID:     b.BusinessID,
		StaffID:        b.StaffID,
		ServiceID:      b.ServiceID,
		CustomerID:     b.CustomerID,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		Quantity:       b.Quantity,
		Amount:         b.Amount,
		OriginalAmount: b.OriginalAmount,
		ServiceName:    b.ServiceName,
		StaffName:      b.StaffName,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
