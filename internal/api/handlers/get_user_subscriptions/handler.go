package get_user_subscriptions

import (
	"net/http"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

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

// Handle GET /api/v1/subscriptions
// Просроченные подписки переводятся в expired перед выдачей списка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /subscriptions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetUserSubscriptions(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /subscriptions - Failed to get subscriptions: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /subscriptions - Subscriptions retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Subscriptions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
