package add_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/service/fields"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса: dayOfWeek 0-6, startTime и endTime HH:MM"
	msgInvalidFieldID     = "некорректный ID поля"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidWindow      = "некорректное окно: время HH:MM, конец позже начала"
	msgFieldNotFound      = "поле не найдено"
	msgForbidden          = "расписанием управляет только владелец поля"
)

type Handler struct {
	service FieldService
	logger  Logger
}

func NewHandler(service FieldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/fields/{fieldId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /fields/{id}/availability - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /fields/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /fields/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	window, err := h.service.AddAvailability(r.Context(), req.ToServiceRequest(actor, fieldID))
	if err != nil {
		switch {
		case errors.Is(err, fields.ErrInvalidInput):
			h.logger.Warn("POST /fields/{id}/availability - Invalid window: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, fields.ErrFieldNotFound):
			h.logger.Warn("POST /fields/{id}/availability - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, fields.ErrAccessDenied):
			h.logger.Warn("POST /fields/{id}/availability - Access denied: field_id=%d, user_id=%d", fieldID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /fields/{id}/availability - Failed to add window: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /fields/{id}/availability - Window added: field_id=%d, window_id=%d", fieldID, window.ID)
	handlers.RespondJSON(w, http.StatusCreated, window)
}
