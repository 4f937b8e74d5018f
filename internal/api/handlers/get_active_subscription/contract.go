package get_active_subscription

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions/models"
)

type SubscriptionService interface {
	GetActiveSubscription(ctx context.Context, fieldID, userID int64) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
