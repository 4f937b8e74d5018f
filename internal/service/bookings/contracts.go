package bookings

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FieldBooking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.FieldBooking, error)
	GetByFieldInRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.FieldBooking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// MerchantRepository интерфейс репозитория мерчантов
type MerchantRepository interface {
	IsOwner(ctx context.Context, merchantID, userID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
