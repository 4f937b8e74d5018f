package create_subscription

import (
	"context"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Field, error)
}

// SubscriptionRepository интерфейс репозитория подписок
type SubscriptionRepository interface {
	ExpireOverdue(ctx context.Context, userID int64, fieldID *int64, today time.Time) (int64, error)
	GetActiveByFieldAndUser(ctx context.Context, fieldID, userID int64) ([]*domain.FieldSubscription, error)
	GetActivePublicPlan(ctx context.Context, fieldID int64, subType domain.SubscriptionType) (*domain.FieldSubscriptionPlan, error)
	Create(ctx context.Context, sub *domain.FieldSubscription) (*domain.FieldSubscription, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
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

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
