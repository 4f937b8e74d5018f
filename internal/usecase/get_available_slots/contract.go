package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
	GetActiveAvailability(ctx context.Context, fieldID int64) ([]*domain.FieldAvailability, error)
	GetClosuresInRange(ctx context.Context, fieldID int64, from, to time.Time) ([]*domain.FieldClosure, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByFieldInRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.FieldBooking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
