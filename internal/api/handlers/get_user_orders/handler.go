package get_user_orders

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service OrderService
	logger  Logger
}

func NewHandler(service OrderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /orders - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetUserOrders(r.Context(), userID)
	if err != nil {
		if errors.Is(err, txmanager.ErrTransient) {
			h.logger.Warn("GET /orders - Transient conflict: user_id=%d, error=%v", userID, err)
			handlers.RespondRetryLater(w)
			return
		}
		h.logger.Error("GET /orders - Failed to get orders: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /orders - Orders retrieved successfully: user_id=%d, count=%d", userID, len(result.Orders))
	handlers.RespondJSON(w, http.StatusOK, result)
}
