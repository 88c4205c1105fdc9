package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/availability"
	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	businessstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	"github.com/m04kA/BMS-SchedulingService/pkg/ptr"
)

type stubBusinessRepo struct {
	business *domain.Business
}

func (r *stubBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	if r.business == nil {
		return nil, businessstore.ErrBusinessNotFound
	}
	return r.business, nil
}

type stubSource struct {
	slots []domain.Slot
	err   error
	calls int
}

func (s *stubSource) AvailableSlots(_ context.Context, _ *domain.Business, _ int64, _ time.Time, _ int64, _ *int) ([]domain.Slot, error) {
	s.calls++
	return s.slots, s.err
}

func (s *stubSource) ComputeSlots(_ context.Context, _ *domain.Business, _ int64, _ time.Time, _ int64, _ *int) ([]domain.Slot, error) {
	s.calls++
	return s.slots, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		BusinessID: 1,
		StaffID:    10,
		ServiceID:  100,
		Date:       testDate,
	}
}

func TestExecute(t *testing.T) {
	slot := domain.Slot{
		StartTime: time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC),
	}

	t.Run("reads from cache by default", func(t *testing.T) {
		cache := &stubSource{slots: []domain.Slot{slot}}
		calculator := &stubSource{}
		uc := NewUseCase(&stubBusinessRepo{business: &domain.Business{ID: 1, Timezone: "UTC"}}, cache, calculator, nopLogger{})

		resp, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, []domain.Slot{slot}, resp.Slots)
		assert.Equal(t, 1, cache.calls)
		assert.Equal(t, 0, calculator.calls)
	})

	t.Run("bypass cache reads from the calculator", func(t *testing.T) {
		cache := &stubSource{}
		calculator := &stubSource{slots: []domain.Slot{slot}}
		uc := NewUseCase(&stubBusinessRepo{business: &domain.Business{ID: 1, Timezone: "UTC"}}, cache, calculator, nopLogger{})

		req := validRequest()
		req.BypassCache = true
		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, []domain.Slot{slot}, resp.Slots)
		assert.Equal(t, 0, cache.calls)
		assert.Equal(t, 1, calculator.calls)
	})

	t.Run("business not found", func(t *testing.T) {
		uc := NewUseCase(&stubBusinessRepo{}, &stubSource{}, &stubSource{}, nopLogger{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("staff not found maps to usecase error", func(t *testing.T) {
		cache := &stubSource{err: availability.ErrStaffNotFound}
		uc := NewUseCase(&stubBusinessRepo{business: &domain.Business{ID: 1, Timezone: "UTC"}}, cache, &stubSource{}, nopLogger{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("service not found maps to usecase error", func(t *testing.T) {
		cache := &stubSource{err: availability.ErrServiceNotFound}
		uc := NewUseCase(&stubBusinessRepo{business: &domain.Business{ID: 1, Timezone: "UTC"}}, cache, &stubSource{}, nopLogger{})
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Request)
		}{
			{"zero business", func(r *Request) { r.BusinessID = 0 }},
			{"zero staff", func(r *Request) { r.StaffID = 0 }},
			{"zero service", func(r *Request) { r.ServiceID = 0 }},
			{"zero date", func(r *Request) { r.Date = time.Time{} }},
			{"interval too small", func(r *Request) { r.Interval = ptr.Ptr(domain.MinIntervalMinutes - 1) }},
			{"interval too large", func(r *Request) { r.Interval = ptr.Ptr(domain.MaxIntervalMinutes + 1) }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				uc := NewUseCase(&stubBusinessRepo{business: &domain.Business{ID: 1, Timezone: "UTC"}}, &stubSource{}, &stubSource{}, nopLogger{})
				req := validRequest()
				tc.mutate(req)
				_, err := uc.Execute(context.Background(), req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}
