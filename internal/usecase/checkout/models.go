package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// Request модель запроса на оформление заказа из активной корзины
type Request struct {
	UserID int64
}

// Response модель ответа: созданные заказы и сводка
type Response struct {
	Orders     []*domain.Order // по одному на пару (мерчант, магазин), в детерминированном порядке
	OrderCount int
	ItemCount  int
	GrandTotal decimal.Decimal
	NewCartID  int64 // новая пустая активная корзина
}
