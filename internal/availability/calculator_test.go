package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	staffstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

type stubStaffRepo struct {
	staff *domain.StaffMember
}

func (r *stubStaffRepo) GetByID(_ context.Context, _, _ int64) (*domain.StaffMember, error) {
	if r.staff == nil {
		return nil, staffstore.ErrStaffNotFound
	}
	return r.staff, nil
}

type stubScheduleRepo struct {
	template *domain.ScheduleTemplate
}

func (r *stubScheduleRepo) GetByStaff(_ context.Context, _ int64) (*domain.ScheduleTemplate, error) {
	return r.template, nil
}

type stubServiceRepo struct {
	service *domain.Service
}

func (r *stubServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return r.service, nil
}

type stubPolicyRepo struct {
	policy *domain.BookingPolicy
}

func (r *stubPolicyRepo) GetByBusiness(_ context.Context, _ int64) (*domain.BookingPolicy, error) {
	if r.policy == nil {
		return nil, policystore.ErrPolicyNotFound
	}
	return r.policy, nil
}

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (r *stubBookingRepo) ListActiveForDay(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return r.bookings, nil
}

func (r *stubBookingRepo) FindOverlapping(_ context.Context, _ int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.IsActive() && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) CountActiveForDay(_ context.Context, _ int64, dayStart, dayEnd time.Time) (int, error) {
	count := 0
	for _, b := range r.bookings {
		if b.IsActive() && !b.StartTime.Before(dayStart) && b.StartTime.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

type frozenTime struct {
	now time.Time
}

func (p *frozenTime) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстура: бизнес в UTC, мастер 10 с услугой 100 на 60 минут,
// понедельник 2025-06-09 с окном 10:00-18:00. "Сейчас" - за неделю до даты.
type fixture struct {
	business *domain.Business
	staff    *domain.StaffMember
	template *domain.ScheduleTemplate
	service  *domain.Service
	policy   *domain.BookingPolicy
	bookings []*domain.Booking
	now      time.Time
}

var monday = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	template := domain.NewScheduleTemplate(10)
	require.NoError(t, template.SetWeekly(time.Monday, []domain.TimeWindow{
		{Start: "10:00", End: "18:00"},
	}))

	return &fixture{
		business: &domain.Business{ID: 1, Name: "Test Business", Timezone: "UTC"},
		staff: &domain.StaffMember{
			ID:                  10,
			BusinessID:          1,
			Name:                "Anna",
			Active:              true,
			QualifiedServiceIDs: []int64{100},
		},
		template: template,
		service: &domain.Service{
			ID:              100,
			BusinessID:      1,
			Name:            "Haircut",
			DurationMinutes: 60,
			Type:            domain.ServiceTypeStandard,
		},
		now: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) calculator() *Calculator {
	c := NewCalculator(
		&stubStaffRepo{staff: f.staff},
		&stubScheduleRepo{template: f.template},
		&stubServiceRepo{service: f.service},
		&stubPolicyRepo{policy: f.policy},
		&stubBookingRepo{bookings: f.bookings},
		nopLogger{},
	)
	c.timeProvider = &frozenTime{now: f.now}
	return c
}

func slotStarts(slots []domain.Slot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime.Format("15:04"))
	}
	return starts
}

func TestComputeSlots_BasicDay(t *testing.T) {
	f := newFixture(t)

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	// 60-минутная услуга в окне 10:00-18:00 без шага: старты каждый час,
	// последний слот 17:00-18:00 точно упирается в конец окна
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		slotStarts(slots))
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.Duration())
	}
}

func TestComputeSlots_ExistingBookingRemovesSlot(t *testing.T) {
	f := newFixture(t)
	f.bookings = []*domain.Booking{{
		ID:        1,
		StaffID:   10,
		StartTime: monday.Add(12 * time.Hour),
		EndTime:   monday.Add(13 * time.Hour),
		Status:    domain.StatusConfirmed,
	}}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	assert.NotContains(t, slotStarts(slots), "12:00")
	assert.Len(t, slots, 7)
}

func TestComputeSlots_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.bookings = []*domain.Booking{{
		ID:        1,
		StaffID:   10,
		StartTime: monday.Add(12 * time.Hour),
		EndTime:   monday.Add(13 * time.Hour),
		Status:    domain.StatusCancelled,
	}}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Contains(t, slotStarts(slots), "12:00")
}

func TestComputeSlots_SplitShift(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.template.SetWeekly(time.Monday, []domain.TimeWindow{
		{Start: "10:00", End: "12:00"},
		{Start: "14:00", End: "18:00"},
	}))

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	// Слот не может пересекать перерыв между окнами
	assert.Equal(t, []string{"10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}, slotStarts(slots))
}

func TestComputeSlots_OrderedAndDeterministic(t *testing.T) {
	f := newFixture(t)
	calc := f.calculator()

	first, err := calc.ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	second, err := calc.ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].StartTime.Before(first[i].StartTime))
	}
}

func TestComputeSlots_FixedIntervalGrid(t *testing.T) {
	f := newFixture(t)
	f.policy = &domain.BookingPolicy{
		BusinessID:        1,
		UseFixedIntervals: true,
		IntervalMinutes:   30,
	}

	hint := 15 // при фиксированной сетке hint игнорируется
	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, &hint)
	require.NoError(t, err)

	require.Len(t, slots, 15)
	assert.Equal(t, "10:00", slots[0].StartTime.Format("15:04"))
	assert.Equal(t, "10:30", slots[1].StartTime.Format("15:04"))
	assert.Equal(t, "17:00", slots[14].StartTime.Format("15:04"))
}

func TestComputeSlots_FixedGridKeepsNonMultipleDuration(t *testing.T) {
	f := newFixture(t)
	f.service.DurationMinutes = 32
	f.policy = &domain.BookingPolicy{
		BusinessID:        1,
		UseFixedIntervals: true,
		IntervalMinutes:   30,
	}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	// Старты идут по сетке, длительность слота остается 32 минуты.
	// 17:30 не предлагается: слот закончился бы в 18:02, за окном.
	require.Len(t, slots, 15)
	assert.Equal(t, []string{
		"10:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}, slotStarts(slots))
	for _, s := range slots {
		assert.Equal(t, 32*time.Minute, s.Duration())
	}
}

func TestComputeSlots_IntervalHint(t *testing.T) {
	f := newFixture(t)

	hint := 30
	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, &hint)
	require.NoError(t, err)

	// Шаг уплотняет только старты, длительность остается 60 минут
	require.Len(t, slots, 15)
	assert.Equal(t, time.Hour, slots[0].Duration())
}

func TestSlotStep(t *testing.T) {
	t.Run("defaults to service duration", func(t *testing.T) {
		f := newFixture(t)
		step, err := f.calculator().SlotStep(context.Background(), f.business, 100, nil)
		require.NoError(t, err)
		assert.Equal(t, 60, step)
	})

	t.Run("hint wins without fixed grid", func(t *testing.T) {
		f := newFixture(t)
		hint := 15
		step, err := f.calculator().SlotStep(context.Background(), f.business, 100, &hint)
		require.NoError(t, err)
		assert.Equal(t, 15, step)
	})

	t.Run("fixed grid overrides the hint", func(t *testing.T) {
		f := newFixture(t)
		f.policy = &domain.BookingPolicy{BusinessID: 1, UseFixedIntervals: true, IntervalMinutes: 30}
		hint := 15
		step, err := f.calculator().SlotStep(context.Background(), f.business, 100, &hint)
		require.NoError(t, err)
		assert.Equal(t, 30, step)
	})
}

func TestComputeSlots_PastDate(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_TodayFiltersElapsedTime(t *testing.T) {
	f := newFixture(t)
	f.now = monday.Add(13*time.Hour + 30*time.Minute)

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"14:00", "15:00", "16:00", "17:00"}, slotStarts(slots))
}

func TestComputeSlots_MinAdvance(t *testing.T) {
	f := newFixture(t)
	minAdvance := 240
	f.policy = &domain.BookingPolicy{BusinessID: 1, MinAdvanceMinutes: &minAdvance}
	f.now = monday.Add(9 * time.Hour)

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	// now 09:00 + 4 часа = слоты не раньше 13:00
	assert.Equal(t, []string{"13:00", "14:00", "15:00", "16:00", "17:00"}, slotStarts(slots))
}

func TestComputeSlots_MaxAdvanceDays(t *testing.T) {
	f := newFixture(t)
	maxDays := 3
	f.policy = &domain.BookingPolicy{BusinessID: 1, MaxAdvanceDays: &maxDays}
	f.now = monday.AddDate(0, 0, -10)

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_DailyLimitReached(t *testing.T) {
	f := newFixture(t)
	limit := 2
	f.policy = &domain.BookingPolicy{BusinessID: 1, MaxDailyBookings: &limit}
	f.bookings = []*domain.Booking{
		{ID: 1, StaffID: 10, StartTime: monday.Add(10 * time.Hour), EndTime: monday.Add(11 * time.Hour), Status: domain.StatusPending},
		{ID: 2, StaffID: 10, StartTime: monday.Add(11 * time.Hour), EndTime: monday.Add(12 * time.Hour), Status: domain.StatusConfirmed},
	}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_InactiveStaff(t *testing.T) {
	f := newFixture(t)
	f.staff.Active = false

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_UnqualifiedStaff(t *testing.T) {
	f := newFixture(t)
	f.staff.QualifiedServiceIDs = []int64{999}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_ClosedDayException(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.template.SetException(monday, nil))

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_ExceptionOverridesTemplate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.template.SetException(monday, []domain.TimeWindow{
		{Start: types.TimeString("12:00"), End: types.TimeString("15:00")},
	}))

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00", "13:00", "14:00"}, slotStarts(slots))
}

func TestComputeSlots_DurationExceedsPolicyMax(t *testing.T) {
	f := newFixture(t)
	maxDuration := 45
	f.policy = &domain.BookingPolicy{BusinessID: 1, MaxDurationMinutes: &maxDuration}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_MinDurationClampsSlotLength(t *testing.T) {
	f := newFixture(t)
	f.service.DurationMinutes = 30
	f.policy = &domain.BookingPolicy{BusinessID: 1, MinDurationMinutes: 60}

	slots, err := f.calculator().ComputeSlots(context.Background(), f.business, 10, monday, 100, nil)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.Duration())
	}
}

func TestIsAvailable(t *testing.T) {
	start := monday.Add(12 * time.Hour)
	end := monday.Add(13 * time.Hour)

	t.Run("free slot inside the window", func(t *testing.T) {
		f := newFixture(t)
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("overlapping booking blocks", func(t *testing.T) {
		f := newFixture(t)
		f.bookings = []*domain.Booking{{
			ID: 5, StaffID: 10,
			StartTime: monday.Add(12*time.Hour + 30*time.Minute),
			EndTime:   monday.Add(13*time.Hour + 30*time.Minute),
			Status:    domain.StatusPending,
		}}
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("own booking is excluded on reschedule", func(t *testing.T) {
		f := newFixture(t)
		f.bookings = []*domain.Booking{{
			ID: 5, StaffID: 10,
			StartTime: start,
			EndTime:   end,
			Status:    domain.StatusConfirmed,
		}}
		own := int64(5)
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, &own)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("touching bookings do not conflict", func(t *testing.T) {
		f := newFixture(t)
		f.bookings = []*domain.Booking{{
			ID: 5, StaffID: 10,
			StartTime: monday.Add(11 * time.Hour),
			EndTime:   start,
			Status:    domain.StatusConfirmed,
		}}
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("interval crossing the window edge", func(t *testing.T) {
		f := newFixture(t)
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100,
			monday.Add(17*time.Hour+30*time.Minute), monday.Add(18*time.Hour+30*time.Minute), nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("exact fit at the window end", func(t *testing.T) {
		f := newFixture(t)
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100,
			monday.Add(17*time.Hour), monday.Add(18*time.Hour), nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("inactive staff", func(t *testing.T) {
		f := newFixture(t)
		f.staff.Active = false
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("daily limit blocks new times", func(t *testing.T) {
		f := newFixture(t)
		limit := 1
		f.policy = &domain.BookingPolicy{BusinessID: 1, MaxDailyBookings: &limit}
		f.bookings = []*domain.Booking{{
			ID: 5, StaffID: 10,
			StartTime: monday.Add(10 * time.Hour),
			EndTime:   monday.Add(11 * time.Hour),
			Status:    domain.StatusConfirmed,
		}}
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("min advance applies", func(t *testing.T) {
		f := newFixture(t)
		minAdvance := 10080 // неделя
		f.policy = &domain.BookingPolicy{BusinessID: 1, MinAdvanceMinutes: &minAdvance}
		f.now = monday.Add(11 * time.Hour)
		ok, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, start, end, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("inverted range is an error", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.calculator().IsAvailable(context.Background(), f.business, 10, 100, end, start, nil)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestConflictDetector(t *testing.T) {
	start := monday.Add(12 * time.Hour)
	end := monday.Add(13 * time.Hour)

	repo := &stubBookingRepo{bookings: []*domain.Booking{{
		ID: 7, StaffID: 10,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusPending,
	}}}
	detector := NewConflictDetector(repo)

	t.Run("overlap detected", func(t *testing.T) {
		conflicting, err := detector.Conflicts(context.Background(), 10, start, end, nil)
		require.NoError(t, err)
		assert.True(t, conflicting)
	})

	t.Run("exclusion removes the conflict", func(t *testing.T) {
		own := int64(7)
		conflicting, err := detector.Conflicts(context.Background(), 10, start, end, &own)
		require.NoError(t, err)
		assert.False(t, conflicting)
	})

	t.Run("adjacent interval is free", func(t *testing.T) {
		conflicting, err := detector.Conflicts(context.Background(), 10, end, end.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, conflicting)
	})

	t.Run("inverted range is an error", func(t *testing.T) {
		_, err := detector.Conflicts(context.Background(), 10, end, start, nil)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
