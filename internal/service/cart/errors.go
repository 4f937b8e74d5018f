package cart

import (
	"errors"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

var (
	// ErrProductNotFound возвращается, когда товар не найден
	ErrProductNotFound = errors.New("product not found")

	// ErrProductUnavailable возвращается, когда товар снят с продажи
	ErrProductUnavailable = errors.New("product is not available")

	// ErrOutOfStock возвращается, когда товара нет в наличии
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrInsufficientStock возвращается вместе с *domain.InsufficientStockError
	ErrInsufficientStock = domain.ErrInsufficientStock

	// ErrItemNotFound возвращается, когда товара нет в корзине
	ErrItemNotFound = errors.New("cart item not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
