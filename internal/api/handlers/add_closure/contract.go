package add_closure

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/fields/models"
)

type FieldService interface {
	AddClosure(ctx context.Context, req *models.AddClosureRequest) (*models.ClosureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
