package fields

import (
	"context"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// FieldRepository интерфейс репозитория полей и их расписания
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
	GetActiveAvailability(ctx context.Context, fieldID int64) ([]*domain.FieldAvailability, error)
	CreateAvailability(ctx context.Context, a *domain.FieldAvailability) (*domain.FieldAvailability, error)
	DeactivateAvailability(ctx context.Context, fieldID, availabilityID int64) error
	GetClosuresInRange(ctx context.Context, fieldID int64, from, to time.Time) ([]*domain.FieldClosure, error)
	CreateClosure(ctx context.Context, c *domain.FieldClosure) (*domain.FieldClosure, error)
	DeleteClosure(ctx context.Context, fieldID, closureID int64) error
}

// MerchantRepository интерфейс репозитория мерчантов
type MerchantRepository interface {
	IsOwner(ctx context.Context, merchantID, userID int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
