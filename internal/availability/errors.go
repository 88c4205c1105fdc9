package availability

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("availability: staff member not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("availability: service not found")

	// ErrInvalidRange возвращается при некорректном временном интервале
	ErrInvalidRange = errors.New("availability: invalid time range")

	// ErrInternal возвращается при внутренних ошибках (БД, расписание)
	ErrInternal = errors.New("availability: internal error")
)
