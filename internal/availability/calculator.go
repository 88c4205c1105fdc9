package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	servicestore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/service"
	staffstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
)

// Calculator вычисляет доступные слоты мастера на дату для услуги.
// Чистая функция своих входов: расписание + политика + существующие
// бронирования + текущее время. Повторный вызов с теми же входами
// возвращает идентичный результат.
type Calculator struct {
	staffRepo    StaffRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	policyRepo   PolicyRepository
	bookingRepo  BookingRepository
	conflicts    *ConflictDetector
	timeProvider TimeProvider
	logger       Logger
}

// NewCalculator создает калькулятор доступности
func NewCalculator(
	staffRepo StaffRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	policyRepo PolicyRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *Calculator {
	return &Calculator{
		staffRepo:    staffRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		policyRepo:   policyRepo,
		bookingRepo:  bookingRepo,
		conflicts:    NewConflictDetector(bookingRepo),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// ComputeSlots возвращает упорядоченный список доступных слотов мастера
// на указанную дату для указанной услуги.
//
// intervalHint - необязательный шаг генерации слотов в минутах. Если у
// бизнеса включена фиксированная сетка, шаг берется из политики и hint
// игнорируется. Длительность слота всегда равна эффективной длительности
// услуги, шаг влияет только на плотность начал.
func (c *Calculator) ComputeSlots(
	ctx context.Context,
	business *domain.Business,
	staffID int64,
	date time.Time,
	serviceID int64,
	intervalHint *int,
) ([]domain.Slot, error) {
	loc := business.Location()
	now := c.timeProvider.Now().In(loc)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	// 1. Мастер должен быть активен и уметь оказывать услугу
	staff, err := c.loadStaff(ctx, business.ID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.Active || !staff.CanPerform(serviceID) {
		return []domain.Slot{}, nil
	}

	service, err := c.serviceRepo.GetByID(ctx, business.ID, serviceID)
	if err != nil {
		if errors.Is(err, servicestore.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: get service id=%d: %v", ErrInternal, serviceID, err)
	}

	policy, err := c.loadPolicy(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	// 2. Дата в прошлом или за пределами окна advance-бронирования
	if isDateInPast(day, now) {
		return []domain.Slot{}, nil
	}
	if !policy.WithinAdvanceWindow(day, now) {
		return []domain.Slot{}, nil
	}

	// 3. Эффективная длительность: min клампится, превышение max
	// означает, что услуга вообще не может быть предложена
	effectiveDuration, ok := policy.EffectiveDuration(service.DurationMinutes)
	if !ok {
		c.logger.Info("ComputeSlots: service id=%d duration %dmin exceeds policy max, no slots",
			serviceID, service.DurationMinutes)
		return []domain.Slot{}, nil
	}

	// 4. Окна доступности на день: исключение перекрывает недельный шаблон
	template, err := c.scheduleRepo.GetByStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: get schedule template: %v", ErrInternal, err)
	}
	windows := template.WindowsOn(day)
	if len(windows) == 0 {
		return []domain.Slot{}, nil
	}

	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	// 5. Дневной лимит проверяется один раз на весь день, не по слотам
	if policy != nil && policy.MaxDailyBookings != nil {
		count, err := c.bookingRepo.CountActiveForDay(ctx, staffID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: count daily bookings: %v", ErrInternal, err)
		}
		if count >= *policy.MaxDailyBookings {
			c.logger.Info("ComputeSlots: staff id=%d reached daily limit %d on %s",
				staffID, *policy.MaxDailyBookings, day.Format(domain.DateFormat))
			return []domain.Slot{}, nil
		}
	}

	// 6. Существующие бронирования загружаются один раз на весь день
	bookings, err := c.bookingRepo.ListActiveForDay(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	step := policy.StepMinutes(intervalHint, effectiveDuration)
	minStart := minAllowedStart(day, now, policy)

	duration := time.Duration(effectiveDuration) * time.Minute
	stepDur := time.Duration(step) * time.Minute

	// 7. Генерация кандидатов по каждому окну независимо.
	// Окна отсортированы, поэтому конкатенация дает хронологический порядок.
	slots := make([]domain.Slot, 0)
	for _, window := range windows {
		windowStart, err := window.Start.At(day, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve window start: %v", ErrInternal, err)
		}
		windowEnd, err := window.End.At(day, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve window end: %v", ErrInternal, err)
		}

		// Точное попадание конца слота в конец окна допустимо
		for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(stepDur) {
			if start.Before(minStart) {
				continue
			}
			end := start.Add(duration)
			if conflictsWith(bookings, start, end, nil) {
				continue
			}
			slots = append(slots, domain.Slot{StartTime: start, EndTime: end})
		}
	}

	return slots, nil
}

// IsAvailable проверяет один конкретный слот: мастер активен и
// квалифицирован, интервал попадает в окно расписания, не нарушает
// advance-ограничения и не пересекается с активными бронированиями.
// excludeBookingID исключает собственное бронирование при переносе.
func (c *Calculator) IsAvailable(
	ctx context.Context,
	business *domain.Business,
	staffID int64,
	serviceID int64,
	start, end time.Time,
	excludeBookingID *int64,
) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRange, start, end)
	}

	loc := business.Location()
	now := c.timeProvider.Now().In(loc)
	start = start.In(loc)
	end = end.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	staff, err := c.loadStaff(ctx, business.ID, staffID)
	if err != nil {
		return false, err
	}
	if !staff.Active || !staff.CanPerform(serviceID) {
		return false, nil
	}

	policy, err := c.loadPolicy(ctx, business.ID)
	if err != nil {
		return false, err
	}

	if !policy.WithinAdvanceWindow(day, now) {
		return false, nil
	}
	if start.Before(minAllowedStart(day, now, policy)) {
		return false, nil
	}

	// Интервал должен целиком попадать в одно окно расписания
	template, err := c.scheduleRepo.GetByStaff(ctx, staffID)
	if err != nil {
		return false, fmt.Errorf("%w: get schedule template: %v", ErrInternal, err)
	}
	if !windowsContain(template.WindowsOn(day), day, loc, start, end) {
		return false, nil
	}

	if policy != nil && policy.MaxDailyBookings != nil {
		count, err := c.bookingRepo.CountActiveForDay(ctx, staffID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return false, fmt.Errorf("%w: count daily bookings: %v", ErrInternal, err)
		}
		if count >= *policy.MaxDailyBookings {
			return false, nil
		}
	}

	conflicting, err := c.conflicts.Conflicts(ctx, staffID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !conflicting, nil
}

// SlotStep разрешает эффективный шаг генерации слотов так же, как это
// делает ComputeSlots: фиксированная сетка политики перекрывает hint,
// hint перекрывает эффективную длительность услуги. Нужен кешу слотов,
// чтобы эквивалентные запросы (nil hint и hint, равный шагу) попадали
// в один ключ.
func (c *Calculator) SlotStep(
	ctx context.Context,
	business *domain.Business,
	serviceID int64,
	intervalHint *int,
) (int, error) {
	service, err := c.serviceRepo.GetByID(ctx, business.ID, serviceID)
	if err != nil {
		if errors.Is(err, servicestore.ErrServiceNotFound) {
			return 0, ErrServiceNotFound
		}
		return 0, fmt.Errorf("%w: get service id=%d: %v", ErrInternal, serviceID, err)
	}

	policy, err := c.loadPolicy(ctx, business.ID)
	if err != nil {
		return 0, err
	}

	effectiveDuration, ok := policy.EffectiveDuration(service.DurationMinutes)
	if !ok {
		// услуга не помещается в политику, слотов все равно не будет
		effectiveDuration = service.DurationMinutes
	}
	return policy.StepMinutes(intervalHint, effectiveDuration), nil
}

func (c *Calculator) loadStaff(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error) {
	staff, err := c.staffRepo.GetByID(ctx, businessID, staffID)
	if err != nil {
		if errors.Is(err, staffstore.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("%w: get staff id=%d: %v", ErrInternal, staffID, err)
	}
	return staff, nil
}

// loadPolicy возвращает nil-политику, если у бизнеса она не настроена -
// отсутствие политики означает отсутствие ограничений
func (c *Calculator) loadPolicy(ctx context.Context, businessID int64) (*domain.BookingPolicy, error) {
	policy, err := c.policyRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, policystore.ErrPolicyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get booking policy: %v", ErrInternal, err)
	}
	return policy, nil
}

// minAllowedStart вычисляет минимально допустимое время начала слота.
// min_advance поглощает фильтрацию прошедшего времени; без него для
// сегодняшней даты действует простое "не раньше сейчас".
func minAllowedStart(day, now time.Time, policy *domain.BookingPolicy) time.Time {
	if policy != nil && policy.MinAdvanceMinutes != nil {
		return now.Add(time.Duration(*policy.MinAdvanceMinutes) * time.Minute)
	}
	if isSameDay(day, now) {
		return now
	}
	return day
}

func windowsContain(windows []domain.TimeWindow, day time.Time, loc *time.Location, start, end time.Time) bool {
	for _, window := range windows {
		windowStart, err := window.Start.At(day, loc)
		if err != nil {
			continue
		}
		windowEnd, err := window.End.At(day, loc)
		if err != nil {
			continue
		}
		if !start.Before(windowStart) && !end.After(windowEnd) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
