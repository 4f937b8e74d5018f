package add_availability

import (
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/fields/models"
)

// AddAvailabilityRequest HTTP request model
type AddAvailabilityRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,min=0,max=6"` // воскресенье = 0
	StartTime string `json:"startTime" validate:"required"`             // "08:00"
	EndTime   string `json:"endTime" validate:"required"`               // "22:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddAvailabilityRequest) ToServiceRequest(actor domain.Actor, fieldID int64) *models.AddAvailabilityRequest {
	return &models.AddAvailabilityRequest{
		Actor:     actor,
		FieldID:   fieldID,
		DayOfWeek: *r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}
