package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// ItemRequest запрос на добавление или изменение позиции корзины
type ItemRequest struct {
	UserID    int64
	ProductID int64
	Quantity  int
}

// CartItemResponse позиция корзины
type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartResponse ответ с активной корзиной
type CartResponse struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	Status    string             `json:"status"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// FromDomainCart конвертирует domain модель в DTO
func FromDomainCart(c *domain.Cart) *CartResponse {
	if c == nil {
		return nil
	}

	resp := &CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Status:    string(c.Status),
		Items:     make([]CartItemResponse, 0, len(c.Items)),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	for _, item := range c.Items {
		resp.Items = append(resp.Items, CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}

	return resp
}
