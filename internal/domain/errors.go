package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock is the sentinel matched by InsufficientStockError
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a requested quantity that exceeds the remaining stock
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, only %d left", e.ProductID, e.Requested, e.Available)
}

// Unwrap allows errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
