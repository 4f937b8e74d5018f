package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	FieldID     int64            // ID поля
	UserID      int64            // ID пользователя из контекста аутентификации
	BookingDate string           // Дата бронирования "YYYY-MM-DD"
	StartTime   string           // Время начала "HH:MM" или "HH:MM:SS"
	EndTime     string           // Время окончания "HH:MM" или "HH:MM:SS"
	TotalPrice  *decimal.Decimal // Цена (опционально, иначе считается по почасовой ставке поля)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	FieldID     int64
	UserID      int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string
	TotalPrice  *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
