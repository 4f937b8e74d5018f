package update_cart_item

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса: quantity должно быть больше нуля"
	msgInvalidProductID    = "некорректный ID товара"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgItemNotFound        = "товара нет в корзине"
	msgProductNotFound     = "товар не найден"
	msgProductUnavailable  = "товар снят с продажи"
	msgOutOfStock          = "товара нет в наличии"
	msgInsufficientStockFn = "недостаточно товара %d: запрошено %d, в наличии %d"
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

// Handle PUT /api/v1/cart/items/{productId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /cart/items/{id} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /cart/items/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /cart/items/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateItem(r.Context(), req.ToServiceRequest(userID, productID))
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			h.logger.Warn("PUT /cart/items/{id} - Insufficient stock: %v", stockErr)
			handlers.RespondConflict(w, fmt.Sprintf(msgInsufficientStockFn,
				stockErr.ProductID, stockErr.Requested, stockErr.Available))

		case errors.Is(err, cart.ErrInvalidInput):
			h.logger.Warn("PUT /cart/items/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, cart.ErrItemNotFound):
			h.logger.Warn("PUT /cart/items/{id} - Item not found: user_id=%d, product_id=%d", userID, productID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, cart.ErrProductNotFound):
			h.logger.Warn("PUT /cart/items/{id} - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, cart.ErrProductUnavailable):
			h.logger.Warn("PUT /cart/items/{id} - Product unavailable: product_id=%d", productID)
			handlers.RespondUnprocessable(w, msgProductUnavailable)

		case errors.Is(err, cart.ErrOutOfStock):
			h.logger.Warn("PUT /cart/items/{id} - Out of stock: product_id=%d", productID)
			handlers.RespondConflict(w, msgOutOfStock)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("PUT /cart/items/{id} - Transient failure: user_id=%d, error=%v", userID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PUT /cart/items/{id} - Failed to update item: user_id=%d, product_id=%d, error=%v",
				userID, productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /cart/items/{id} - Item updated successfully: cart_id=%d, product_id=%d, quantity=%d",
		result.ID, productID, req.Quantity)
	handlers.RespondJSON(w, http.StatusOK, result)
}
