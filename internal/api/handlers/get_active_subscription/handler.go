package get_active_subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions"
)

const (
	msgInvalidFieldID = "некорректный ID поля"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "активной подписки на поле нет"
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

// Handle GET /api/v1/fields/{fieldId}/subscriptions/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/subscriptions/active - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /fields/{id}/subscriptions/active - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetActiveSubscription(r.Context(), fieldID, userID)
	if err != nil {
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			h.logger.Info("GET /fields/{id}/subscriptions/active - No active subscription: field_id=%d, user_id=%d", fieldID, userID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /fields/{id}/subscriptions/active - Failed to get subscription: field_id=%d, error=%v", fieldID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /fields/{id}/subscriptions/active - Subscription retrieved: subscription_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
