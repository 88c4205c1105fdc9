package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/BMS-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var policyColumns = []string{
	"id",
	"business_id",
	"min_duration_minutes",
	"max_duration_minutes",
	"max_daily_bookings",
	"cancellation_window_minutes",
	"min_advance_minutes",
	"max_advance_days",
	"use_fixed_intervals",
	"interval_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политиками бронирования.
// У бизнеса не более одной активной политики (unique business_id).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusiness получает политику бронирования бизнеса
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := r.scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("%w: GetByBusiness - scan policy: %v", ErrScanRow, err)
	}
	return policy, nil
}

// Upsert создает или заменяет политику бизнеса
func (r *Repository) Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_policies").
		Columns(
			"business_id",
			"min_duration_minutes",
			"max_duration_minutes",
			"max_daily_bookings",
			"cancellation_window_minutes",
			"min_advance_minutes",
			"max_advance_days",
			"use_fixed_intervals",
			"interval_minutes",
		).
		Values(
			policy.BusinessID,
			policy.MinDurationMinutes,
			policy.MaxDurationMinutes,
			policy.MaxDailyBookings,
			policy.CancellationWindowMinutes,
			policy.MinAdvanceMinutes,
			policy.MaxAdvanceDays,
			policy.UseFixedIntervals,
			policy.IntervalMinutes,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			min_duration_minutes = EXCLUDED.min_duration_minutes,
			max_duration_minutes = EXCLUDED.max_duration_minutes,
			max_daily_bookings = EXCLUDED.max_daily_bookings,
			cancellation_window_minutes = EXCLUDED.cancellation_window_minutes,
			min_advance_minutes = EXCLUDED.min_advance_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			use_fixed_intervals = EXCLUDED.use_fixed_intervals,
			interval_minutes = EXCLUDED.interval_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time
	return policy, nil
}

// Delete удаляет политику бизнеса
func (r *Repository) Delete(ctx context.Context, businessID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_policies").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanPolicy(row rowScanner) (*domain.BookingPolicy, error) {
	var policy domain.BookingPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&policy.ID,
		&policy.BusinessID,
		&policy.MinDurationMinutes,
		&policy.MaxDurationMinutes,
		&policy.MaxDailyBookings,
		&policy.CancellationWindowMinutes,
		&policy.MinAdvanceMinutes,
		&policy.MaxAdvanceDays,
		&policy.UseFixedIntervals,
		&policy.IntervalMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time
	return &policy, nil
}
