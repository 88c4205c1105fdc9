package domain

import "time"

// ServiceType тип услуги
type ServiceType string

const (
	ServiceTypeStandard   ServiceType = "standard"
	ServiceTypeExperience ServiceType = "experience"
)

// Service бронируемая услуга бизнеса.
// Experience-услуги несут общую емкость мест ("spots"), расходуемую
// количеством мест в бронированиях; места списываются при создании и
// возвращаются при отмене.
type Service struct {
	ID         int64
	BusinessID int64
	Name       string

	DurationMinutes int // nominal slot length before policy clamping
	Price           float64
	Type            ServiceType

	MinBookings *int
	MaxBookings *int
	Spots       *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExperience возвращает true для услуг с общей емкостью мест
func (s *Service) IsExperience() bool {
	return s.Type == ServiceTypeExperience
}

// AvailableSpots возвращает оставшуюся емкость, 0 для standard-услуг
func (s *Service) AvailableSpots() int {
	if !s.IsExperience() || s.Spots == nil {
		return 0
	}
	return *s.Spots
}

// HasCapacityFor проверяет, помещается ли запрошенное количество в
// оставшиеся места. Для standard-услуг всегда true.
func (s *Service) HasCapacityFor(quantity int) bool {
	if !s.IsExperience() {
		return true
	}
	return quantity <= s.AvailableSpots()
}
