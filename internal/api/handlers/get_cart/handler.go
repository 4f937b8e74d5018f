package get_cart

import (
	"net/http"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service CartService
	logger  Logger
}

func NewHandler(service CartService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/cart
// Активная корзина создается при первом обращении
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /cart - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	cart, err := h.service.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /cart - Failed to get cart: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /cart - Cart retrieved successfully: cart_id=%d, items=%d", cart.ID, len(cart.Items))
	handlers.RespondJSON(w, http.StatusOK, cart)
}
