package deactivate_availability

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

type FieldService interface {
	DeactivateAvailability(ctx context.Context, actor domain.Actor, fieldID, availabilityID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
