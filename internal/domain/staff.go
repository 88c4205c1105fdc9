package domain

import "time"

// StaffMember сотрудник бизнеса, оказывающий услуги
type StaffMember struct {
	ID         int64
	BusinessID int64
	Name       string
	Active     bool

	// QualifiedServiceIDs услуги, которые мастер может оказывать
	QualifiedServiceIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanPerform проверяет, оказывает ли мастер данную услугу
func (s *StaffMember) CanPerform(serviceID int64) bool {
	for _, id := range s.QualifiedServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
