package models

import (
	"fmt"
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
	"github.com/m04kA/BMS-SchedulingService/pkg/types"
)

// TimeWindowDTO одно окно доступности, [start, end)
type TimeWindowDTO struct {
	Start types.TimeString `json:"start"` // "09:00"
	End   types.TimeString `json:"end"`   // "13:00"
}

// UpdateWeeklyRequest запрос на полную замену недельного расписания.
// Ключи дней недели: monday..sunday, отсутствующий день = выходной.
type UpdateWeeklyRequest struct {
	BusinessID int64                      `json:"businessId"`
	StaffID    int64                      `json:"staffId"`
	Weekly     map[string][]TimeWindowDTO `json:"weekly"`
}

// SetExceptionRequest запрос на установку исключения на конкретную дату.
// Пустой список окон означает выходной день.
type SetExceptionRequest struct {
	BusinessID int64           `json:"businessId"`
	StaffID    int64           `json:"staffId"`
	Date       time.Time       `json:"date"`
	Windows    []TimeWindowDTO `json:"windows"`
}

// ScheduleResponse ответ с шаблоном расписания сотрудника
type ScheduleResponse struct {
	StaffID    int64                      `json:"staffId"`
	Weekly     map[string][]TimeWindowDTO `json:"weekly"`
	Exceptions map[string][]TimeWindowDTO `json:"exceptions"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// weekdayNames порядок соответствует time.Weekday (Sunday = 0)
var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// ParseWeekday конвертирует имя дня недели в time.Weekday
func ParseWeekday(name string) (time.Weekday, error) {
	for i, n := range weekdayNames {
		if n == name {
			return time.Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ToDomainWindows конвертирует DTO окна в domain модели с валидацией
func ToDomainWindows(windows []TimeWindowDTO) ([]domain.TimeWindow, error) {
	result := make([]domain.TimeWindow, 0, len(windows))
	for _, w := range windows {
		window, err := domain.NewTimeWindow(w.Start, w.End)
		if err != nil {
			return nil, err
		}
		result = append(result, window)
	}
	return result, nil
}

// ToWeekly конвертирует карту день-недели -> окна в доменное представление
func (r *UpdateWeeklyRequest) ToWeekly() ([7][]domain.TimeWindow, error) {
	var weekly [7][]domain.TimeWindow
	for name, windows := range r.Weekly {
		day, err := ParseWeekday(name)
		if err != nil {
			return weekly, err
		}
		converted, err := ToDomainWindows(windows)
		if err != nil {
			return weekly, fmt.Errorf("%s: %w", name, err)
		}
		weekly[day] = converted
	}
	return weekly, nil
}

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.ScheduleTemplate) *ScheduleResponse {
	if t == nil {
		return nil
	}

	resp := &ScheduleResponse{
		StaffID:    t.StaffID,
		Weekly:     make(map[string][]TimeWindowDTO),
		Exceptions: make(map[string][]TimeWindowDTO),
		UpdatedAt:  t.UpdatedAt,
	}

	for day, windows := range t.Weekly {
		if len(windows) == 0 {
			continue
		}
		resp.Weekly[weekdayNames[day]] = fromDomainWindows(windows)
	}

	for date, windows := range t.Exceptions {
		resp.Exceptions[date] = fromDomainWindows(windows)
	}

	return resp
}

func fromDomainWindows(windows []domain.TimeWindow) []TimeWindowDTO {
	result := make([]TimeWindowDTO, 0, len(windows))
	for _, w := range windows {
		result = append(result, TimeWindowDTO{Start: w.Start, End: w.End})
	}
	return result
}
