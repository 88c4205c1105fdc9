package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/BMS-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с сотрудниками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника бизнеса вместе со списком услуг,
// которые он может оказывать
func (r *Repository) GetByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.business_id",
		"s.name",
		"s.active",
		"s.created_at",
		"s.updated_at",
		"COALESCE(ARRAY_AGG(ss.service_id) FILTER (WHERE ss.service_id IS NOT NULL), '{}')",
	).
		From("staff_members s").
		LeftJoin("staff_services ss ON ss.staff_id = s.id").
		Where(squirrel.Eq{"s.id": staffID}).
		Where(squirrel.Eq{"s.business_id": businessID}).
		GroupBy("s.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	var createdAt, updatedAt sql.NullTime
	var serviceIDs pq.Int64Array

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.BusinessID,
		&staff.Name,
		&staff.Active,
		&createdAt,
		&updatedAt,
		&serviceIDs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	staff.QualifiedServiceIDs = serviceIDs
	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time
	return &staff, nil
}

// ListByBusiness получает всех сотрудников бизнеса
func (r *Repository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"active",
		"created_at",
		"updated_at",
	).
		From("staff_members").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffMembers := make([]*domain.StaffMember, 0)
	for rows.Next() {
		var staff domain.StaffMember
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&staff.ID,
			&staff.BusinessID,
			&staff.Name,
			&staff.Active,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByBusiness - scan staff: %v", ErrScanRow, err)
		}
		staff.CreatedAt = createdAt.Time
		staff.UpdatedAt = updatedAt.Time
		staffMembers = append(staffMembers, &staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - rows error: %v", ErrScanRow, err)
	}
	return staffMembers, nil
}
