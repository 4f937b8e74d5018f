package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	FieldID     int64      // ID поля
	StartDate   *time.Time // Первая дата диапазона (nil - сегодня)
	NumDays     *int       // Количество дней (nil - 7, ограничивается сверху настройкой)
	SlotMinutes *int       // Длина слота в минутах (nil - значение по умолчанию)
}

// Response модель ответа с разбивкой по дням
type Response struct {
	FieldID     int64
	StartDate   time.Time
	NumDays     int
	SlotMinutes int
	Days        []domain.DaySlots
}

// Settings ограничения расчета слотов из конфигурации
type Settings struct {
	MaxRangeDays       int
	DefaultSlotMinutes int
}
