package get_available_slots

import (
	"time"

	"github.com/m04kA/BMS-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса (tenant)
	StaffID    int64     // ID сотрудника
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
	Interval   *int      // Необязательный шаг генерации слотов в минутах

	// BypassCache читает слоты напрямую из калькулятора. Нужен вызывающим,
	// которым важна консистентность сразу после записи бронирования.
	BypassCache bool
}

// Response модель ответа со списком слотов
type Response struct {
	BusinessID int64
	StaffID    int64
	ServiceID  int64
	Date       time.Time
	Slots      []domain.Slot
}
