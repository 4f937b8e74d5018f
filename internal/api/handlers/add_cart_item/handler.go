package add_cart_item

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса: productId и quantity должны быть больше нуля"
	msgMissingUserID       = "отсутствует ID пользователя"
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

// Handle POST /api/v1/cart/items
// Если товар уже в корзине, количество суммируется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /cart/items - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cart/items - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddItem(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			h.logger.Warn("POST /cart/items - Insufficient stock: %v", stockErr)
			handlers.RespondConflict(w, fmt.Sprintf(msgInsufficientStockFn,
				stockErr.ProductID, stockErr.Requested, stockErr.Available))

		case errors.Is(err, cart.ErrInvalidInput):
			h.logger.Warn("POST /cart/items - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, cart.ErrProductNotFound):
			h.logger.Warn("POST /cart/items - Product not found: product_id=%d", req.ProductID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, cart.ErrProductUnavailable):
			h.logger.Warn("POST /cart/items - Product unavailable: product_id=%d", req.ProductID)
			handlers.RespondUnprocessable(w, msgProductUnavailable)

		case errors.Is(err, cart.ErrOutOfStock):
			h.logger.Warn("POST /cart/items - Out of stock: product_id=%d", req.ProductID)
			handlers.RespondConflict(w, msgOutOfStock)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("POST /cart/items - Transient failure: user_id=%d, error=%v", userID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /cart/items - Failed to add item: user_id=%d, product_id=%d, error=%v",
				userID, req.ProductID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cart/items - Item added successfully: cart_id=%d, product_id=%d, quantity=%d",
		result.ID, req.ProductID, req.Quantity)
	handlers.RespondJSON(w, http.StatusOK, result)
}
