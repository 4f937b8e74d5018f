package checkout

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// CartRepository интерфейс репозитория корзин
type CartRepository interface {
	GetActive(ctx context.Context, userID int64) (*domain.Cart, error)
	GetItems(ctx context.Context, cartID int64) ([]*domain.CartItem, error)
	SetStatus(ctx context.Context, cartID int64, status domain.CartStatus) error
	DeleteItems(ctx context.Context, cartID int64) error
	EnsureActive(ctx context.Context, userID int64) (*domain.Cart, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	DecrementStock(ctx context.Context, id int64, quantity int) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventRecorder счетчик бизнес-событий
type EventRecorder interface {
	RecordEvent(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
