package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	bookingstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/booking"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
	"github.com/m04kA/BMS-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/BMS-SchedulingService/pkg/ptr"
)

type stubBookingRepo struct {
	booking   *domain.Booking
	list      []*domain.Booking
	gotFilter domain.StaffBookingsFilter
	cancelled bool
	cancelErr error
	reason    *string
}

func (r *stubBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if r.booking == nil {
		return nil, bookingstore.ErrBookingNotFound
	}
	return r.booking, nil
}

func (r *stubBookingRepo) GetWithFilter(_ context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	r.gotFilter = filter
	return r.list, nil
}

func (r *stubBookingRepo) Cancel(_ context.Context, _ int64, reason *string) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelled = true
	r.reason = reason
	return nil
}

type stubServiceRepo struct {
	service     *domain.Service
	incremented int
}

func (r *stubServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return r.service, nil
}

func (r *stubServiceRepo) IncrementSpots(_ context.Context, _ int64, quantity int) error {
	r.incremented += quantity
	return nil
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

type stubNotifier struct {
	events []notifyservice.Event
}

func (n *stubNotifier) Notify(_ context.Context, event notifyservice.Event, _ *domain.Booking) error {
	n.events = append(n.events, event)
	return nil
}

type stubTxManager struct{}

func (m *stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type frozenTime struct {
	now time.Time
}

func (p *frozenTime) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var bookingStart = time.Date(2025, 6, 9, 14, 0, 0, 0, time.UTC)

type env struct {
	bookingRepo *stubBookingRepo
	serviceRepo *stubServiceRepo
	policyRepo  *stubPolicyRepo
	notifier    *stubNotifier
	now         time.Time
}

func newEnv() *env {
	return &env{
		bookingRepo: &stubBookingRepo{booking: &domain.Booking{
			ID:          5,
			BusinessID:  1,
			StaffID:     10,
			ServiceID:   100,
			StartTime:   bookingStart,
			EndTime:     bookingStart.Add(time.Hour),
			Status:      domain.StatusConfirmed,
			Quantity:    1,
			ServiceName: "Haircut",
		}},
		serviceRepo: &stubServiceRepo{service: &domain.Service{
			ID: 100, BusinessID: 1, Name: "Haircut", DurationMinutes: 60, Type: domain.ServiceTypeStandard,
		}},
		policyRepo: &stubPolicyRepo{},
		notifier:   &stubNotifier{},
		now:        bookingStart.Add(-24 * time.Hour),
	}
}

func (e *env) service() *Service {
	s := NewService(e.bookingRepo, e.serviceRepo, e.policyRepo, e.notifier, &stubTxManager{}, nopLogger{})
	s.timeProvider = &frozenTime{now: e.now}
	return s
}

func TestGetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := newEnv()
		resp, err := e.service().GetByID(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("not found", func(t *testing.T) {
		e := newEnv()
		e.bookingRepo.booking = nil
		_, err := e.service().GetByID(context.Background(), 1, 5)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("other tenant's booking is invisible", func(t *testing.T) {
		e := newEnv()
		_, err := e.service().GetByID(context.Background(), 2, 5)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetStaffBookings(t *testing.T) {
	t.Run("filter is passed through", func(t *testing.T) {
		e := newEnv()
		e.bookingRepo.list = []*domain.Booking{e.bookingRepo.booking}

		resp, err := e.service().GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
			BusinessID: 1,
			StaffID:    ptr.Ptr(int64(10)),
			Status:     ptr.Ptr("confirmed"),
		})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)

		assert.Equal(t, int64(1), e.bookingRepo.gotFilter.BusinessID)
		require.NotNil(t, e.bookingRepo.gotFilter.Status)
		assert.Equal(t, domain.StatusConfirmed, *e.bookingRepo.gotFilter.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		e := newEnv()
		_, err := e.service().GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
			BusinessID: 1,
			Status:     ptr.Ptr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("inverted period", func(t *testing.T) {
		e := newEnv()
		start := bookingStart
		end := bookingStart.Add(-time.Hour)
		_, err := e.service().GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
			BusinessID: 1,
			StartDate:  &start,
			EndDate:    &end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCancel(t *testing.T) {
	cancelReq := func() *models.CancelBookingRequest {
		return &models.CancelBookingRequest{BusinessID: 1, Reason: ptr.Ptr("client request")}
	}

	t.Run("success without policy", func(t *testing.T) {
		e := newEnv()
		err := e.service().Cancel(context.Background(), 5, cancelReq())
		require.NoError(t, err)
		assert.True(t, e.bookingRepo.cancelled)
		require.NotNil(t, e.bookingRepo.reason)
		assert.Equal(t, "client request", *e.bookingRepo.reason)
		assert.Equal(t, []notifyservice.Event{notifyservice.EventBookingCancelled}, e.notifier.events)
	})

	t.Run("terminal status cannot be cancelled", func(t *testing.T) {
		e := newEnv()
		e.bookingRepo.booking.Status = domain.StatusCompleted
		err := e.service().Cancel(context.Background(), 5, cancelReq())
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("other tenant's booking is invisible", func(t *testing.T) {
		e := newEnv()
		err := e.service().Cancel(context.Background(), 5, &models.CancelBookingRequest{BusinessID: 2})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("inside the cancellation window", func(t *testing.T) {
		e := newEnv()
		e.policyRepo.policy = &domain.BookingPolicy{BusinessID: 1, CancellationWindowMinutes: 120}
		e.now = bookingStart.Add(-119 * time.Minute)

		err := e.service().Cancel(context.Background(), 5, cancelReq())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.EqualError(t, err, "Cannot cancel booking within 120 minutes of the start time.")
		assert.False(t, e.bookingRepo.cancelled)
		assert.Empty(t, e.notifier.events)

		var windowErr *CancellationWindowError
		require.ErrorAs(t, err, &windowErr)
		assert.Equal(t, 120, windowErr.WindowMinutes)
	})

	t.Run("exactly on the window boundary is allowed", func(t *testing.T) {
		e := newEnv()
		e.policyRepo.policy = &domain.BookingPolicy{BusinessID: 1, CancellationWindowMinutes: 120}
		e.now = bookingStart.Add(-120 * time.Minute)

		err := e.service().Cancel(context.Background(), 5, cancelReq())
		require.NoError(t, err)
		assert.True(t, e.bookingRepo.cancelled)
	})

	t.Run("zero window always allows", func(t *testing.T) {
		e := newEnv()
		e.policyRepo.policy = &domain.BookingPolicy{BusinessID: 1, CancellationWindowMinutes: 0}
		e.now = bookingStart.Add(-time.Minute)

		err := e.service().Cancel(context.Background(), 5, cancelReq())
		assert.NoError(t, err)
	})

	t.Run("experience cancellation restores spots", func(t *testing.T) {
		e := newEnv()
		e.serviceRepo.service.Type = domain.ServiceTypeExperience
		e.serviceRepo.service.Spots = ptr.Ptr(2)
		e.bookingRepo.booking.Quantity = 3

		err := e.service().Cancel(context.Background(), 5, cancelReq())
		require.NoError(t, err)
		assert.Equal(t, 3, e.serviceRepo.incremented)
	})

	t.Run("standard cancellation leaves spots alone", func(t *testing.T) {
		e := newEnv()
		err := e.service().Cancel(context.Background(), 5, cancelReq())
		require.NoError(t, err)
		assert.Equal(t, 0, e.serviceRepo.incremented)
	})

	t.Run("concurrent cancel does not restore spots twice", func(t *testing.T) {
		e := newEnv()
		e.serviceRepo.service.Type = domain.ServiceTypeExperience
		e.serviceRepo.service.Spots = ptr.Ptr(2)
		e.bookingRepo.booking.Quantity = 2
		// конкурентная транзакция уже отменила бронирование: UPDATE по
		// активным статусам находит 0 строк
		e.bookingRepo.cancelErr = bookingstore.ErrBookingNotActive

		err := e.service().Cancel(context.Background(), 5, cancelReq())
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Equal(t, 0, e.serviceRepo.incremented)
		assert.Empty(t, e.notifier.events)
	})

	t.Run("notify flag suppresses the event", func(t *testing.T) {
		e := newEnv()
		req := cancelReq()
		req.Notify = ptr.Ptr(false)

		err := e.service().Cancel(context.Background(), 5, req)
		require.NoError(t, err)
		assert.Empty(t, e.notifier.events)
	})
}
