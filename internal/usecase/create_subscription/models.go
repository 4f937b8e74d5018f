package create_subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на оформление или продление подписки
type Request struct {
	FieldID   int64   // ID поля
	UserID    int64   // ID пользователя из контекста аутентификации
	Type      string  // monthly | quarterly | yearly, регистр и пробелы не важны
	StartDate *string // Желаемая дата начала "YYYY-MM-DD" (опционально)
}

// Response модель ответа с созданной подпиской
type Response struct {
	ID        int64
	FieldID   int64
	UserID    int64
	Type      string
	PlanID    *int64
	Price     *decimal.Decimal
	Currency  string
	StartDate time.Time
	EndDate   time.Time // включительно
	Status    string
	Renewal   bool // true, если период продлевает существующую активную подписку
	CreatedAt time.Time
}
