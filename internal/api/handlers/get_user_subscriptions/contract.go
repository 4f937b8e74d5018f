package get_user_subscriptions

import (
	"context"

	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions/models"
)

type SubscriptionService interface {
	GetUserSubscriptions(ctx context.Context, userID int64) (*models.SubscriptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
