package checkout

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	checkoutUC "github.com/m04kA/SMC-Marketplace/internal/usecase/checkout"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgMissingUserID       = "отсутствует ID пользователя"
	msgEmptyCart           = "корзина пуста"
	msgProductNotFound     = "товар из корзины больше не существует"
	msgProductUnavailable  = "товар из корзины снят с продажи"
	msgOutOfStock          = "товара из корзины нет в наличии"
	msgInsufficientStockFn = "недостаточно товара %d: запрошено %d, в наличии %d"
)

type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/cart/checkout
// Ни один заказ не создается, если хотя бы одна позиция не прошла проверку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /cart/checkout - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkoutUC.Request{UserID: userID})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			h.logger.Warn("POST /cart/checkout - Insufficient stock: user_id=%d, %v", userID, stockErr)
			handlers.RespondConflict(w, fmt.Sprintf(msgInsufficientStockFn,
				stockErr.ProductID, stockErr.Requested, stockErr.Available))

		case errors.Is(err, checkoutUC.ErrEmptyCart):
			h.logger.Warn("POST /cart/checkout - Empty cart: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgEmptyCart)

		case errors.Is(err, checkoutUC.ErrProductNotFound):
			h.logger.Warn("POST /cart/checkout - Product not found: user_id=%d, error=%v", userID, err)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, checkoutUC.ErrProductUnavailable):
			h.logger.Warn("POST /cart/checkout - Product unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondUnprocessable(w, msgProductUnavailable)

		case errors.Is(err, checkoutUC.ErrOutOfStock):
			h.logger.Warn("POST /cart/checkout - Out of stock: user_id=%d, error=%v", userID, err)
			handlers.RespondConflict(w, msgOutOfStock)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("POST /cart/checkout - Transient failure: user_id=%d, error=%v", userID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /cart/checkout - Checkout failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cart/checkout - Checkout completed: user_id=%d, orders=%d, items=%d, total=%s",
		userID, result.OrderCount, result.ItemCount, result.GrandTotal.StringFixed(2))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
