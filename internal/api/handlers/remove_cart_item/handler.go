package remove_cart_item

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidProductID = "некорректный ID товара"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgItemNotFound     = "товара нет в корзине"
)

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

// Handle DELETE /api/v1/cart/items/{productId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /cart/items/{id} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /cart/items/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound):
			h.logger.Warn("DELETE /cart/items/{id} - Item not found: user_id=%d, product_id=%d", userID, productID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("DELETE /cart/items/{id} - Transient failure: user_id=%d, error=%v", userID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("DELETE /cart/items/{id} - Failed to remove item: user_id=%d, product_id=%d, error=%v",
				userID, productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /cart/items/{id} - Item removed successfully: cart_id=%d, product_id=%d", result.ID, productID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
