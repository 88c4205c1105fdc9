package domain

import "time"

// TenantCustomer клиент бизнеса. Ищется по email или создается на лету
// при бронировании, если вместо id переданы контактные данные.
type TenantCustomer struct {
	ID         int64
	BusinessID int64
	Email      string
	Name       string
	Phone      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
