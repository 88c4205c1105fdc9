package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// TimeWindow один интервал доступности в течение дня, [Start, End)
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeWindow валидирует и конструирует окно. End должен быть позже Start.
func NewTimeWindow(start, end types.TimeString) (TimeWindow, error) {
	if err := start.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("invalid window start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("invalid window end: %w", err)
	}
	if !start.IsBefore(end) {
		return TimeWindow{}, fmt.Errorf("window end %s must be after start %s", end, start)
	}
	return TimeWindow{Start: start, End: end}, nil
}

// ScheduleTemplate недельное расписание мастера плюс исключения на
// конкретные даты. Исключение с пустым списком окон означает выходной;
// дата без исключения берет окна из недельного шаблона. Для калькулятора
// шаблон только читается.
type ScheduleTemplate struct {
	StaffID int64

	// Weekly индексируется time.Weekday (воскресенье = 0). Несколько
	// окон в день - разрывной график.
	Weekly [7][]TimeWindow

	// Exceptions с ключом-датой в формате YYYY-MM-DD.
	Exceptions map[string][]TimeWindow

	UpdatedAt time.Time
}

// NewScheduleTemplate создает пустой шаблон расписания для мастера
func NewScheduleTemplate(staffID int64) *ScheduleTemplate {
	return &ScheduleTemplate{
		StaffID:    staffID,
		Exceptions: make(map[string][]TimeWindow),
	}
}

// SetWeekly заменяет окна одного дня недели, сохраняя сортировку
func (t *ScheduleTemplate) SetWeekly(day time.Weekday, windows []TimeWindow) error {
	sorted, err := normalizeWindows(windows)
	if err != nil {
		return err
	}
	t.Weekly[day] = sorted
	return nil
}

// SetException заменяет окна на конкретную дату.
// Пустой список (запись в map сохраняется) помечает дату как выходной.
func (t *ScheduleTemplate) SetException(date time.Time, windows []TimeWindow) error {
	sorted, err := normalizeWindows(windows)
	if err != nil {
		return err
	}
	if t.Exceptions == nil {
		t.Exceptions = make(map[string][]TimeWindow)
	}
	t.Exceptions[date.Format(DateFormat)] = sorted
	return nil
}

// RemoveException убирает исключение, возвращая дате недельный шаблон
func (t *ScheduleTemplate) RemoveException(date time.Time) {
	delete(t.Exceptions, date.Format(DateFormat))
}

// WindowsOn возвращает окна доступности на дату: исключение, если оно
// есть (явный пустой список - выходной), иначе недельный шаблон для
// дня недели этой даты.
func (t *ScheduleTemplate) WindowsOn(date time.Time) []TimeWindow {
	if windows, ok := t.Exceptions[date.Format(DateFormat)]; ok {
		return windows
	}
	return t.Weekly[date.Weekday()]
}

// normalizeWindows сортирует окна и проверяет, что они не пересекаются
func normalizeWindows(windows []TimeWindow) ([]TimeWindow, error) {
	sorted := make([]TimeWindow, 0, len(windows))
	for _, w := range windows {
		validated, err := NewTimeWindow(w.Start, w.End)
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, validated)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.IsBefore(sorted[i-1].End) {
			return nil, fmt.Errorf("windows %s-%s and %s-%s overlap",
				sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
		}
	}

	return sorted, nil
}
