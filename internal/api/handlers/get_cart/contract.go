package get_cart

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/cart/models"
)

type CartService interface {
	GetOrCreateActiveCart(ctx context.Context, userID int64) (*models.CartResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
