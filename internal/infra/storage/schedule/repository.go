package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/BMS-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий шаблонов расписаний.
// Недельный шаблон и исключения хранятся в двух таблицах:
// schedule_templates (weekday, окно) и schedule_exceptions (дата, окно
// или флаг closed для выходного).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStaff собирает полный шаблон расписания мастера.
// Мастер без записей получает пустой шаблон (нет окон - нет слотов).
func (r *Repository) GetByStaff(ctx context.Context, staffID int64) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	template := domain.NewScheduleTemplate(staffID)

	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time").
		From("schedule_templates").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - build weekly query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - execute weekly query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	weekly := make(map[time.Weekday][]domain.TimeWindow)
	for rows.Next() {
		var weekday int
		var start, end types.TimeString
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetByStaff - scan weekly window: %v", ErrScanRow, err)
		}
		if weekday < 0 || weekday > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidWindow, weekday)
		}
		weekly[time.Weekday(weekday)] = append(weekly[time.Weekday(weekday)], domain.TimeWindow{Start: start, End: end})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - weekly rows error: %v", ErrScanRow, err)
	}

	for day, windows := range weekly {
		if err := template.SetWeekly(day, windows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
	}

	if err := r.loadExceptions(ctx, executor, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) loadExceptions(ctx context.Context, executor DBExecutor, template *domain.ScheduleTemplate) error {
	query, args, err := psqlbuilder.Select("date", "start_time", "end_time", "closed").
		From("schedule_exceptions").
		Where(squirrel.Eq{"staff_id": template.StaffID}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadExceptions - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// closed-строка дает пустой список окон: явное "закрыто" на дату
	exceptions := make(map[time.Time][]domain.TimeWindow)
	for rows.Next() {
		var date time.Time
		var start, end sql.Null[types.TimeString]
		var closed bool
		if err := rows.Scan(&date, &start, &end, &closed); err != nil {
			return fmt.Errorf("%w: loadExceptions - scan window: %v", ErrScanRow, err)
		}

		if _, ok := exceptions[date]; !ok {
			exceptions[date] = []domain.TimeWindow{}
		}
		if closed {
			continue
		}
		if !start.Valid || !end.Valid {
			return fmt.Errorf("%w: exception on %s has no window and no closed flag", ErrInvalidWindow, date.Format(domain.DateFormat))
		}
		exceptions[date] = append(exceptions[date], domain.TimeWindow{Start: start.V, End: end.V})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadExceptions - rows error: %v", ErrScanRow, err)
	}

	for date, windows := range exceptions {
		if err := template.SetException(date, windows); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
	}
	return nil
}

// ReplaceWeekly заменяет недельный шаблон мастера целиком
func (r *Repository) ReplaceWeekly(ctx context.Context, staffID int64, weekly [7][]domain.TimeWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_templates").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - execute delete: %v", ErrExecQuery, err)
	}

	insert := psqlbuilder.Insert("schedule_templates").
		Columns("staff_id", "weekday", "start_time", "end_time")
	hasRows := false
	for weekday, windows := range weekly {
		for _, window := range windows {
			insert = insert.Values(staffID, weekday, window.Start, window.End)
			hasRows = true
		}
	}
	if !hasRows {
		return nil
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// SetException заменяет исключение на дату. Пустой список окон
// записывается одной closed-строкой ("закрыто весь день").
func (r *Repository) SetException(ctx context.Context, staffID int64, date time.Time, windows []domain.TimeWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.deleteException(ctx, executor, staffID, date); err != nil {
		return err
	}

	insert := psqlbuilder.Insert("schedule_exceptions").
		Columns("staff_id", "date", "start_time", "end_time", "closed")
	if len(windows) == 0 {
		insert = insert.Values(staffID, date, nil, nil, true)
	} else {
		for _, window := range windows {
			insert = insert.Values(staffID, date, window.Start, window.End, false)
		}
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetException - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetException - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// RemoveException удаляет исключение, возвращая дату к недельному шаблону
func (r *Repository) RemoveException(ctx context.Context, staffID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.deleteException(ctx, executor, staffID, date)
}

func (r *Repository) deleteException(ctx context.Context, executor DBExecutor, staffID int64, date time.Time) error {
	query, args, err := psqlbuilder.Delete("schedule_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: deleteException - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: deleteException - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}
