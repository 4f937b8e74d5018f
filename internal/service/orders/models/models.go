package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// UpdateStatusRequest запрос на смену статуса заказа
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// OrderItemResponse позиция заказа со снимком товара
type OrderItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductImage *string         `json:"productImage,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// OrderResponse ответ с данными заказа
type OrderResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"userId"`
	MerchantID int64               `json:"merchantId"`
	StoreID    *int64              `json:"storeId,omitempty"`
	Status     string              `json:"status"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	Total      decimal.Decimal     `json:"total"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// OrderListResponse ответ со списком заказов
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// FromDomainOrder конвертирует domain модель в DTO
func FromDomainOrder(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	resp := &OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		MerchantID: o.MerchantID,
		StoreID:    o.StoreID,
		Status:     string(o.Status),
		Subtotal:   o.Subtotal,
		Total:      o.Total,
		Items:      make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal,
		})
	}

	return resp
}

// FromDomainOrderList конвертирует список domain моделей в DTO
func FromDomainOrderList(orders []*domain.Order) *OrderListResponse {
	resp := &OrderListResponse{
		Orders: make([]OrderResponse, 0, len(orders)),
	}

	for _, o := range orders {
		if r := FromDomainOrder(o); r != nil {
			resp.Orders = append(resp.Orders, *r)
		}
	}

	return resp
}
