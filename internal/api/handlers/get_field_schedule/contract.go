package get_field_schedule

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/fields/models"
)

type FieldService interface {
	GetSchedule(ctx context.Context, fieldID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
