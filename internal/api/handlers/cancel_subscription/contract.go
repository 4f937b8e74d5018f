package cancel_subscription

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions/models"
)

type SubscriptionService interface {
	Cancel(ctx context.Context, subscriptionID, userID int64) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
