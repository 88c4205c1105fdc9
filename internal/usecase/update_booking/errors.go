package update_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("update_booking: business not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("update_booking: staff member not found")

	// ErrServiceNotFound возвращается, когда новая услуга не найдена
	ErrServiceNotFound = errors.New("update_booking: service not found")

	// ErrStaffNotQualified возвращается, когда сотрудник не оказывает данную услугу
	ErrStaffNotQualified = errors.New("update_booking: staff member does not provide this service")

	// ErrBookingNotEditable возвращается для отмененных и завершенных бронирований
	ErrBookingNotEditable = errors.New("update_booking: booking can no longer be updated")

	// ErrInvalidStatusTransition возвращается при недопустимом переходе статуса
	ErrInvalidStatusTransition = errors.New("update_booking: invalid status transition")

	// ErrCancelViaUpdate возвращается при попытке отменить бронирование через
	// update. Отмена идет через отдельную операцию: там проверяется окно
	// отмены и возвращаются места experience-услуг.
	ErrCancelViaUpdate = errors.New("update_booking: cancellation must go through the cancel operation")

	// ErrTimeNotAvailable возвращается, когда новое время занято или вне расписания.
	// Бронирование при этом остается без изменений.
	ErrTimeNotAvailable = errors.New("update_booking: time is not available")

	// ErrDurationNotAllowed возвращается, когда длительность услуги нарушает политику бронирования
	ErrDurationNotAllowed = errors.New("update_booking: service duration exceeds the allowed maximum")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
