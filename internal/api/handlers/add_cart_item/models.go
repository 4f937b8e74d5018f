package add_cart_item

import "github.com/m04kA/SMC-Marketplace/internal/service/cart/models"

// AddItemRequest HTTP request model
type AddItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddItemRequest) ToServiceRequest(userID int64) *models.ItemRequest {
	return &models.ItemRequest{
		UserID:    userID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}
}
