package cart

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// CartRepository интерфейс репозитория корзин
type CartRepository interface {
	EnsureActive(ctx context.Context, userID int64) (*domain.Cart, error)
	GetItems(ctx context.Context, cartID int64) ([]*domain.CartItem, error)
	GetItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error)
	CreateItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, cartID, productID int64) error
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
