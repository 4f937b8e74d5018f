package delete_closure

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

type FieldService interface {
	DeleteClosure(ctx context.Context, actor domain.Actor, fieldID, closureID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
