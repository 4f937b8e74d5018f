package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/pkg/money"
)

// Product represents merchant inventory that can be put into a cart
type Product struct {
	ID                 int64
	MerchantID         int64
	StoreID            *int64
	Title              string
	ImageURL           *string
	Price              decimal.Decimal
	DiscountPercentage decimal.NullDecimal
	Quantity           int // stock
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectivePrice returns the unit price after discount, rounded to cents
func (p *Product) EffectivePrice() decimal.Decimal {
	return money.EffectivePrice(p.Price, p.DiscountPercentage)
}

// InStock returns true if at least one unit is available
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// Merchant is a lookup-only owner reference
type Merchant struct {
	ID      int64
	OwnerID int64
	Name    string
}
