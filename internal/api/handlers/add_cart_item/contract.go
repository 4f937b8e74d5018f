package add_cart_item

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/cart/models"
)

type CartService interface {
	AddItem(ctx context.Context, req *models.ItemRequest) (*models.CartResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
