package create_subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	createSubscription "github.com/m04kA/SMC-Marketplace/internal/usecase/create_subscription"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFieldID     = "некорректный ID поля"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidType        = "некорректный тип подписки, ожидается monthly, quarterly или yearly"
	msgInvalidStartDate   = "некорректная дата начала: ожидается YYYY-MM-DD не раньше сегодняшнего дня"
	msgFieldNotFound      = "поле не найдено"
	msgNotAvailable       = "поле недоступно для подписки"
	msgPeriodOverlap      = "период подписки пересекается с уже активной подпиской"
)

type Handler struct {
	useCase CreateSubscriptionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSubscriptionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/fields/{fieldId}/subscriptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /fields/{id}/subscriptions - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /fields/{id}/subscriptions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSubscriptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /fields/{id}/subscriptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(fieldID, userID))
	if err != nil {
		switch {
		case errors.Is(err, createSubscription.ErrInvalidType):
			h.logger.Warn("POST /fields/{id}/subscriptions - Invalid type: %q", req.Type)
			handlers.RespondBadRequest(w, msgInvalidType)

		case errors.Is(err, createSubscription.ErrInvalidInput):
			h.logger.Warn("POST /fields/{id}/subscriptions - Invalid input: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidStartDate)

		case errors.Is(err, createSubscription.ErrFieldNotFound):
			h.logger.Warn("POST /fields/{id}/subscriptions - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, createSubscription.ErrNotAvailable):
			h.logger.Warn("POST /fields/{id}/subscriptions - Field not available: field_id=%d", fieldID)
			handlers.RespondUnprocessable(w, msgNotAvailable)

		case errors.Is(err, createSubscription.ErrPeriodOverlap):
			h.logger.Warn("POST /fields/{id}/subscriptions - Period overlap: field_id=%d, user_id=%d", fieldID, userID)
			handlers.RespondConflict(w, msgPeriodOverlap)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("POST /fields/{id}/subscriptions - Transient failure: field_id=%d, error=%v", fieldID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /fields/{id}/subscriptions - Failed to create subscription: field_id=%d, user_id=%d, error=%v",
				fieldID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /fields/{id}/subscriptions - Subscription created successfully: subscription_id=%d, renewal=%t",
		result.ID, result.Renewal)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
