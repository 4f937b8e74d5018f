package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/pkg/money"
)

// CartStatus represents the status of a cart
type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checked_out"
)

// Cart is a user's shopping basket
type Cart struct {
	ID        int64
	UserID    int64
	Status    CartStatus
	Items     []*CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal returns the sum of all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(c.Items))
	for _, item := range c.Items {
		totals = append(totals, item.LineTotal())
	}
	return money.Sum(totals...)
}

// ItemCount returns the total number of units in the cart
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is a single product line in a cart
type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal returns unit price times quantity, rounded to cents
func (i *CartItem) LineTotal() decimal.Decimal {
	return money.LineTotal(i.UnitPrice, i.Quantity)
}
