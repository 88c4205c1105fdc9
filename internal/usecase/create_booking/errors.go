package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotQualified возвращается, когда сотрудник не оказывает данную услугу
	ErrStaffNotQualified = errors.New("create_booking: staff member does not provide this service")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrTimeNotAvailable возвращается, когда запрошенное время занято или вне расписания
	ErrTimeNotAvailable = errors.New("create_booking: time is not available")

	// ErrInsufficientSpots возвращается, когда у experience-услуги не хватает мест
	ErrInsufficientSpots = errors.New("create_booking: not enough spots available")

	// ErrDurationNotAllowed возвращается, когда длительность услуги нарушает политику бронирования
	ErrDurationNotAllowed = errors.New("create_booking: service duration exceeds the allowed maximum")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
