package update_cart_item

import "github.com/m04kA/SMC-Marketplace/internal/service/cart/models"

// UpdateItemRequest HTTP request model
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateItemRequest) ToServiceRequest(userID, productID int64) *models.ItemRequest {
	return &models.ItemRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  r.Quantity,
	}
}
