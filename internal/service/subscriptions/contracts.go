package subscriptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

// SubscriptionRepository интерфейс репозитория подписок
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FieldSubscription, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.FieldSubscription, error)
	GetActiveByFieldAndUser(ctx context.Context, fieldID, userID int64) ([]*domain.FieldSubscription, error)
	ExpireOverdue(ctx context.Context, userID int64, fieldID *int64, today time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SubscriptionStatus) error
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

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
