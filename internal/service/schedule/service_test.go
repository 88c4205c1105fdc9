package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	staffstore "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/BMS-SchedulingService/internal/service/schedule/models"
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

	replacedWeekly   *[7][]domain.TimeWindow
	exceptionDate    time.Time
	exceptionWindows []domain.TimeWindow
	removedDate      time.Time
}

func (r *stubScheduleRepo) GetByStaff(_ context.Context, staffID int64) (*domain.ScheduleTemplate, error) {
	if r.template == nil {
		return domain.NewScheduleTemplate(staffID), nil
	}
	return r.template, nil
}

func (r *stubScheduleRepo) ReplaceWeekly(_ context.Context, _ int64, weekly [7][]domain.TimeWindow) error {
	r.replacedWeekly = &weekly
	return nil
}

func (r *stubScheduleRepo) SetException(_ context.Context, _ int64, date time.Time, windows []domain.TimeWindow) error {
	r.exceptionDate = date
	r.exceptionWindows = windows
	return nil
}

func (r *stubScheduleRepo) RemoveException(_ context.Context, _ int64, date time.Time) error {
	r.removedDate = date
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type TimeWindowDTO = models.TimeWindowDTO

func window(start, end string) TimeWindowDTO {
	return TimeWindowDTO{Start: types.TimeString(start), End: types.TimeString(end)}
}

func newService(repo *stubScheduleRepo) *Service {
	staff := &domain.StaffMember{ID: 10, BusinessID: 1, Name: "Anna", Active: true}
	return NewService(&stubStaffRepo{staff: staff}, repo, nopLogger{})
}

func TestGetByStaff(t *testing.T) {
	t.Run("empty template for staff without schedule", func(t *testing.T) {
		resp, err := newService(&stubScheduleRepo{}).GetByStaff(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Empty(t, resp.Weekly)
		assert.Empty(t, resp.Exceptions)
	})

	t.Run("staff not found", func(t *testing.T) {
		svc := NewService(&stubStaffRepo{}, &stubScheduleRepo{}, nopLogger{})
		_, err := svc.GetByStaff(context.Background(), 1, 10)
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("zero ids", func(t *testing.T) {
		_, err := newService(&stubScheduleRepo{}).GetByStaff(context.Background(), 0, 10)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateWeekly(t *testing.T) {
	t.Run("missing weekday becomes a day off", func(t *testing.T) {
		repo := &stubScheduleRepo{}
		_, err := newService(repo).UpdateWeekly(context.Background(), &models.UpdateWeeklyRequest{
			BusinessID: 1,
			StaffID:    10,
			Weekly: map[string][]TimeWindowDTO{
				"monday": {window("10:00", "18:00")},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, repo.replacedWeekly)
		assert.Len(t, repo.replacedWeekly[time.Monday], 1)
		assert.Empty(t, repo.replacedWeekly[time.Tuesday])
		assert.Empty(t, repo.replacedWeekly[time.Sunday])
	})

	t.Run("unknown weekday name", func(t *testing.T) {
		_, err := newService(&stubScheduleRepo{}).UpdateWeekly(context.Background(), &models.UpdateWeeklyRequest{
			BusinessID: 1,
			StaffID:    10,
			Weekly: map[string][]TimeWindowDTO{
				"someday": {window("10:00", "18:00")},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := newService(&stubScheduleRepo{}).UpdateWeekly(context.Background(), &models.UpdateWeeklyRequest{
			BusinessID: 1,
			StaffID:    10,
			Weekly: map[string][]TimeWindowDTO{
				"monday": {window("18:00", "10:00")},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSetException(t *testing.T) {
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	t.Run("shortened day", func(t *testing.T) {
		repo := &stubScheduleRepo{}
		err := newService(repo).SetException(context.Background(), &models.SetExceptionRequest{
			BusinessID: 1,
			StaffID:    10,
			Date:       date,
			Windows:    []TimeWindowDTO{window("12:00", "15:00")},
		})
		require.NoError(t, err)
		assert.Equal(t, date, repo.exceptionDate)
		require.Len(t, repo.exceptionWindows, 1)
		assert.Equal(t, types.TimeString("12:00"), repo.exceptionWindows[0].Start)
	})

	t.Run("empty window list means closed day", func(t *testing.T) {
		repo := &stubScheduleRepo{}
		err := newService(repo).SetException(context.Background(), &models.SetExceptionRequest{
			BusinessID: 1,
			StaffID:    10,
			Date:       date,
		})
		require.NoError(t, err)
		assert.Empty(t, repo.exceptionWindows)
	})

	t.Run("zero date", func(t *testing.T) {
		err := newService(&stubScheduleRepo{}).SetException(context.Background(), &models.SetExceptionRequest{
			BusinessID: 1,
			StaffID:    10,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRemoveException(t *testing.T) {
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	repo := &stubScheduleRepo{}
	err := newService(repo).RemoveException(context.Background(), 1, 10, date)
	require.NoError(t, err)
	assert.Equal(t, date, repo.removedDate)
}
