package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	checkoutUC "github.com/m04kA/SMC-Marketplace/internal/usecase/checkout"
)

// CheckoutResponse HTTP response model
type CheckoutResponse struct {
	Orders     []OrderView     `json:"orders"`
	OrderCount int             `json:"orderCount"`
	ItemCount  int             `json:"itemCount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	NewCartID  int64           `json:"newCartId"`
}

// OrderView созданный заказ одного мерчанта (и магазина)
type OrderView struct {
	ID         int64           `json:"id"`
	MerchantID int64           `json:"merchantId"`
	StoreID    *int64          `json:"storeId,omitempty"`
	Status     string          `json:"status"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderItemView `json:"items"`
	CreatedAt  string          `json:"createdAt"`
}

// OrderItemView позиция заказа
type OrderItemView struct {
	ProductID    int64           `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkoutUC.Response) *CheckoutResponse {
	orders := make([]OrderView, len(resp.Orders))
	for i, o := range resp.Orders {
		orders[i] = fromDomainOrder(o)
	}

	return &CheckoutResponse{
		Orders:     orders,
		OrderCount: resp.OrderCount,
		ItemCount:  resp.ItemCount,
		GrandTotal: resp.GrandTotal,
		NewCartID:  resp.NewCartID,
	}
}

func fromDomainOrder(o *domain.Order) OrderView {
	items := make([]OrderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemView{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal,
		}
	}

	return OrderView{
		ID:         o.ID,
		MerchantID: o.MerchantID,
		StoreID:    o.StoreID,
		Status:     string(o.Status),
		Subtotal:   o.Subtotal,
		Total:      o.Total,
		Items:      items,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}
