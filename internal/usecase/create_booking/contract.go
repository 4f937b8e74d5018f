package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Field, error)
	GetActiveAvailabilityByDay(ctx context.Context, fieldID int64, dayOfWeek int) ([]*domain.FieldAvailability, error)
	GetClosureByDate(ctx context.Context, fieldID int64, date time.Time) (*domain.FieldClosure, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.FieldBooking) (*domain.FieldBooking, error)
	GetActiveByFieldAndDate(ctx context.Context, fieldID int64, date time.Time) ([]*domain.FieldBooking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventRecorder счетчик бизнес-событий
type EventRecorder interface {
	RecordEvent(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
