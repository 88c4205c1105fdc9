package domain

import "time"

// Slot доступный для бронирования интервал [StartTime, EndTime) для
// одного мастера, одной услуги, одной даты.
type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Duration возвращает длительность слота
func (s Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
