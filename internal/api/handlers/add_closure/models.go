package add_closure

import (
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/fields/models"
)

// AddClosureRequest HTTP request model
type AddClosureRequest struct {
	Date   string  `json:"date" validate:"required"` // "2025-10-15"
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddClosureRequest) ToServiceRequest(actor domain.Actor, fieldID int64) *models.AddClosureRequest {
	return &models.AddClosureRequest{
		Actor:   actor,
		FieldID: fieldID,
		Date:    r.Date,
		Reason:  r.Reason,
	}
}
