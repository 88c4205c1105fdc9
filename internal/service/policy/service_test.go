package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	businessstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	policystore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/BMS-SchedulingService/internal/service/policy/models"
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

type stubPolicyRepo struct {
	policy  *domain.BookingPolicy
	saved   *domain.BookingPolicy
	deleted bool
}

func (r *stubPolicyRepo) GetByBusiness(_ context.Context, _ int64) (*domain.BookingPolicy, error) {
	if r.policy == nil {
		return nil, policystore.ErrPolicyNotFound
	}
	return r.policy, nil
}

func (r *stubPolicyRepo) Upsert(_ context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	saved := *policy
	saved.ID = 77
	r.saved = &saved
	return &saved, nil
}

func (r *stubPolicyRepo) Delete(_ context.Context, _ int64) error {
	if r.policy == nil {
		return policystore.ErrPolicyNotFound
	}
	r.deleted = true
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(business *domain.Business, repo *stubPolicyRepo) *Service {
	return NewService(&stubBusinessRepo{business: business}, repo, nopLogger{})
}

func TestGetByBusiness(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &stubPolicyRepo{policy: &domain.BookingPolicy{ID: 1, BusinessID: 1, CancellationWindowMinutes: 120}}
		resp, err := newService(&domain.Business{ID: 1}, repo).GetByBusiness(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 120, resp.CancellationWindowMinutes)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := newService(&domain.Business{ID: 1}, &stubPolicyRepo{}).GetByBusiness(context.Background(), 1)
		assert.ErrorIs(t, err, ErrPolicyNotFound)
	})
}

func TestUpsert(t *testing.T) {
	validReq := func() *models.UpsertPolicyRequest {
		return &models.UpsertPolicyRequest{
			BusinessID:                1,
			MinDurationMinutes:        30,
			MaxDurationMinutes:        ptr.Ptr(180),
			CancellationWindowMinutes: 120,
			UseFixedIntervals:         true,
			IntervalMinutes:           30,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &stubPolicyRepo{}
		resp, err := newService(&domain.Business{ID: 1}, repo).Upsert(context.Background(), validReq())
		require.NoError(t, err)
		assert.Equal(t, int64(77), resp.ID)
		require.NotNil(t, repo.saved)
		assert.Equal(t, 30, repo.saved.IntervalMinutes)
	})

	t.Run("business not found", func(t *testing.T) {
		_, err := newService(nil, &stubPolicyRepo{}).Upsert(context.Background(), validReq())
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("invalid policy is rejected", func(t *testing.T) {
		req := validReq()
		req.MinDurationMinutes = 200 // больше maxDurationMinutes
		_, err := newService(&domain.Business{ID: 1}, &stubPolicyRepo{}).Upsert(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("fixed intervals require the interval value", func(t *testing.T) {
		req := validReq()
		req.IntervalMinutes = 0
		_, err := newService(&domain.Business{ID: 1}, &stubPolicyRepo{}).Upsert(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero business id", func(t *testing.T) {
		req := validReq()
		req.BusinessID = 0
		_, err := newService(&domain.Business{ID: 1}, &stubPolicyRepo{}).Upsert(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &stubPolicyRepo{policy: &domain.BookingPolicy{ID: 1, BusinessID: 1}}
		err := newService(&domain.Business{ID: 1}, repo).Delete(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, repo.deleted)
	})

	t.Run("not found", func(t *testing.T) {
		err := newService(&domain.Business{ID: 1}, &stubPolicyRepo{}).Delete(context.Background(), 1)
		assert.ErrorIs(t, err, ErrPolicyNotFound)
	})
}
