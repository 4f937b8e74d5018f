package checkout

import (
	"errors"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

var (
	// ErrEmptyCart возвращается, когда у пользователя нет активной корзины или она пуста
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrProductNotFound возвращается, когда товар из корзины удален
	ErrProductNotFound = errors.New("checkout: product not found")

	// ErrProductUnavailable возвращается, когда товар из корзины снят с продажи
	ErrProductUnavailable = errors.New("checkout: product is not available")

	// ErrOutOfStock возвращается, когда товара из корзины не осталось
	ErrOutOfStock = errors.New("checkout: product is out of stock")

	// ErrInsufficientStock возвращается вместе с *domain.InsufficientStockError
	ErrInsufficientStock = domain.ErrInsufficientStock

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("checkout: internal error")
)
