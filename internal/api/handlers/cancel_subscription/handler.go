package cancel_subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidSubscriptionID = "некорректный ID подписки"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "подписка не найдена"
	msgForbidden             = "можно отменить только свою подписку"
	msgNotActive             = "подписка не активна"
)

type Handler struct {
	service SubscriptionService
	logger  Logger
}

func NewHandler(service SubscriptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/subscriptions/{subscriptionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Invalid subscription ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /subscriptions/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Cancel(r.Context(), subscriptionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrSubscriptionNotFound):
			h.logger.Warn("PATCH /subscriptions/{id}/cancel - Not found: subscription_id=%d", subscriptionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, subscriptions.ErrForbidden):
			h.logger.Warn("PATCH /subscriptions/{id}/cancel - Forbidden: subscription_id=%d, user_id=%d", subscriptionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, subscriptions.ErrInvalidStateTransition):
			h.logger.Warn("PATCH /subscriptions/{id}/cancel - Not active: subscription_id=%d", subscriptionID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("PATCH /subscriptions/{id}/cancel - Transient failure: subscription_id=%d, error=%v", subscriptionID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PATCH /subscriptions/{id}/cancel - Failed to cancel: subscription_id=%d, error=%v", subscriptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /subscriptions/{id}/cancel - Subscription cancelled: subscription_id=%d, user_id=%d",
		subscriptionID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
