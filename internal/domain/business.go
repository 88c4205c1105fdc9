package domain

import (
	"time"
)

// Business tenant бизнес-платформы. Всегда передается явным параметром,
// никакого ambient-контекста текущего тенанта.
type Business struct {
	ID       int64
	Name     string
	Timezone string // IANA name, e.g. "Europe/Moscow"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location разрешает таймзону бизнеса, с откатом на UTC при пустом
// или неизвестном имени зоны.
func (b *Business) Location() *time.Location {
	if b == nil || b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
