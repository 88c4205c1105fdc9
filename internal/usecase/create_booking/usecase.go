package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
	bookingstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/booking"
	businessstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	customerstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/customer"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	servicestore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/service"
	staffstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
)

// UseCase use case для создания бронирования
type UseCase struct {
	businessRepo BusinessRepository
	staffRepo    StaffRepository
	serviceRepo  ServiceRepository
	customerRepo CustomerRepository
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	availability AvailabilityChecker
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	customerRepo CustomerRepository,
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
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		availability: availability,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и запись выполняются в одной сериализуемой
// транзакции, чтобы два конкурирующих запроса на один слот не могли
// оба пройти проверку до записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%d, staff=%d, service=%d",
		req.BusinessID, req.StaffID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес - его таймзона определяет интерпретацию даты
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessstore.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Проверяем сотрудника: существует, активен, оказывает услугу
	staff, err := uc.staffRepo.GetByID(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		if errors.Is(err, staffstore.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("CreateBooking: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}
	if !staff.CanPerform(req.ServiceID) {
		uc.logger.Warn("CreateBooking: staff id=%d does not provide service id=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffNotQualified
	}

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicestore.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Политика бронирования: отсутствие политики = отсутствие ограничений
	policy, err := uc.policyRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, policystore.ErrPolicyNotFound) {
		uc.logger.Error("CreateBooking: failed to get booking policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get booking policy: %v", ErrInternal, err)
	}

	// 6. Вычисляем интервал бронирования в таймзоне бизнеса
	startTime, err := resolveStartTime(req, business.Location())
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}
	endTime, err := effectiveEndTime(startTime, service, policy)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	quantity := requestedQuantity(req)
	if !service.IsExperience() && quantity != 1 {
		uc.logger.Warn("CreateBooking: quantity=%d for non-experience service id=%d", quantity, req.ServiceID)
		return nil, fmt.Errorf("%w: quantity is only supported for experience services", ErrInvalidInput)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Резолвим клиента: по id либо find-or-create по email
		customer, err := uc.resolveCustomer(txCtx, req)
		if err != nil {
			return err
		}

		// 7.2. Для experience-услуг списываем места из общей емкости
		if service.IsExperience() {
			if !service.HasCapacityFor(quantity) {
				uc.logger.Warn("CreateBooking: service id=%d has %d spots, requested %d",
					req.ServiceID, service.AvailableSpots(), quantity)
				return ErrInsufficientSpots
			}
			if err := uc.serviceRepo.DecrementSpots(txCtx, req.ServiceID, quantity); err != nil {
				if errors.Is(err, servicestore.ErrInsufficientSpots) {
					return ErrInsufficientSpots
				}
				uc.logger.Error("CreateBooking: failed to decrement spots: %v", err)
				return fmt.Errorf("%w: failed to decrement spots: %v", ErrInternal, err)
			}
		}

		// 7.3. Проверяем доступность слота внутри транзакции
		available, err := uc.availability.IsAvailable(txCtx, business, req.StaffID, req.ServiceID, startTime, endTime, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: availability check failed: %v", err)
			return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}
		if !available {
			uc.logger.Warn("CreateBooking: time %s is not available for staff id=%d",
				startTime.Format(time.RFC3339), req.StaffID)
			return ErrTimeNotAvailable
		}

		// 7.4. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			BusinessID: req.BusinessID,
			StaffID:    req.StaffID,
			ServiceID:  req.ServiceID,
			CustomerID: customer.ID,
			StartTime:  startTime,
			EndTime:    endTime,
			Status:     domain.StatusPending,
			Quantity:   quantity,
			// Скидки и промокоды применяются внешним сервисом позже
			Amount:         service.Price,
			OriginalAmount: service.Price,
			// Денормализация для истории
			ServiceName: service.Name,
			StaffName:   &staff.Name,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Страховка на случай гонки: уникальный индекс по активным
			// бронированиям ловит двойную запись даже вне serializable
			if errors.Is(err, bookingstore.ErrSlotTaken) {
				return ErrTimeNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 8. Уведомление после коммита, ошибки не влияют на результат
	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, notifyservice.EventBookingCreated, result); err != nil {
			uc.logger.Warn("CreateBooking: failed to send notification for booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// resolveCustomer находит клиента по id либо по email, создавая нового
// при отсутствии
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*domain.TenantCustomer, error) {
	if req.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(ctx, req.BusinessID, *req.CustomerID)
		if err != nil {
			if errors.Is(err, customerstore.ErrCustomerNotFound) {
				uc.logger.Warn("CreateBooking: customer id=%d not found", *req.CustomerID)
				return nil, ErrCustomerNotFound
			}
			uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", *req.CustomerID, err)
			return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
		return customer, nil
	}

	customer, err := uc.customerRepo.FindByEmail(ctx, req.BusinessID, req.Customer.Email)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, customerstore.ErrCustomerNotFound) {
		uc.logger.Error("CreateBooking: failed to find customer by email: %v", err)
		return nil, fmt.Errorf("%w: failed to find customer: %v", ErrInternal, err)
	}

	created, err := uc.customerRepo.Create(ctx, &domain.TenantCustomer{
		BusinessID: req.BusinessID,
		Email:      req.Customer.Email,
		Name:       req.Customer.Name,
		Phone:      req.Customer.Phone,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create customer: %v", err)
		return nil, fmt.Errorf("%w: failed to create customer: %v", ErrInternal, err)
	}
	uc.logger.Info("CreateBooking: created customer id=%d for business=%d", created.ID, req.BusinessID)
	return created, nil
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
