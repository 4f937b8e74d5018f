package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the order can no longer change status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is a purchase record scoped to one merchant and optionally one store
type Order struct {
	ID         int64
	UserID     int64
	MerchantID int64
	StoreID    *int64
	Status     OrderStatus
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Items      []*OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemCount returns the total number of units in the order
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// OrderItem snapshots the product at purchase time
type OrderItem struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductTitle string
	ProductImage *string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineTotal    decimal.Decimal
	CreatedAt    time.Time
}

// OrderGroupKey partitions checkout lines into orders
type OrderGroupKey struct {
	MerchantID int64
	StoreID    *int64
}

// Less orders keys by merchant, then store with "no store" first
func (k OrderGroupKey) Less(other OrderGroupKey) bool {
	if k.MerchantID != other.MerchantID {
		return k.MerchantID < other.MerchantID
	}
	switch {
	case k.StoreID == nil:
		return other.StoreID != nil
	case other.StoreID == nil:
		return false
	default:
		return *k.StoreID < *other.StoreID
	}
}

// Equal compares keys by value
func (k OrderGroupKey) Equal(other OrderGroupKey) bool {
	if k.MerchantID != other.MerchantID {
		return false
	}
	if k.StoreID == nil || other.StoreID == nil {
		return k.StoreID == nil && other.StoreID == nil
	}
	return *k.StoreID == *other.StoreID
}
