package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCannotCancel возвращается для отмененных и завершенных бронирований
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationWindow возвращается, когда отмена нарушает
	// cancellation_window политики. Конкретное сообщение несет
	// CancellationWindowError.
	ErrCancellationWindow = errors.New("cancellation window violated")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// CancellationWindowError пользовательская ошибка отмены слишком близко
// к началу бронирования. Статус бронирования при этом не меняется.
type CancellationWindowError struct {
	WindowMinutes int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("Cannot cancel booking within %d minutes of the start time.", e.WindowMinutes)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrCancellationWindow)
func (e *CancellationWindowError) Is(target error) bool {
	return target == ErrCancellationWindow
}
