package add_closure

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFieldID     = "некорректный ID поля"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgFieldNotFound      = "поле не найдено"
	msgForbidden          = "расписанием управляет только владелец поля"
	msgClosureExists      = "поле уже закрыто на эту дату"
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

// Handle POST /api/v1/fields/{fieldId}/closures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /fields/{id}/closures - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /fields/{id}/closures - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /fields/{id}/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	closure, err := h.service.AddClosure(r.Context(), req.ToServiceRequest(actor, fieldID))
	if err != nil {
		switch {
		case errors.Is(err, fields.ErrInvalidInput):
			h.logger.Warn("POST /fields/{id}/closures - Invalid date: %q", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, fields.ErrFieldNotFound):
			h.logger.Warn("POST /fields/{id}/closures - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, fields.ErrAccessDenied):
			h.logger.Warn("POST /fields/{id}/closures - Access denied: field_id=%d, user_id=%d", fieldID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, fields.ErrClosureExists):
			h.logger.Warn("POST /fields/{id}/closures - Already closed: field_id=%d, date=%s", fieldID, req.Date)
			handlers.RespondConflict(w, msgClosureExists)

		default:
			h.logger.Error("POST /fields/{id}/closures - Failed to add closure: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /fields/{id}/closures - Closure added: field_id=%d, date=%s", fieldID, closure.Date)
	handlers.RespondJSON(w, http.StatusCreated, closure)
}
