package get_field_bookings

import (
	"strconv"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/bookings/models"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// startDate и endDate обязательны, includeInactive по умолчанию false.
func ToServiceRequest(actor domain.Actor, fieldID int64, startDate, endDate, includeInactive string) (*models.GetFieldBookingsRequest, error) {
	start, err := types.ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end, err := types.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	req := &models.GetFieldBookingsRequest{
		Actor:     actor,
		FieldID:   fieldID,
		StartDate: start,
		EndDate:   end,
	}

	if includeInactive != "" {
		req.IncludeInactive, err = strconv.ParseBool(includeInactive)
		if err != nil {
			return nil, err
		}
	}

	return req, nil
}
