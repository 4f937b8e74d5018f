package delete_closure

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
	msgInvalidID       = "некорректный ID поля или закрытия"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgFieldNotFound   = "поле не найдено"
	msgClosureNotFound = "закрытие не найдено"
	msgForbidden       = "расписанием управляет только владелец поля"
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

// Handle DELETE /api/v1/fields/{fieldId}/closures/{closureId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /fields/{id}/closures/{id} - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	closureID, err := strconv.ParseInt(vars["closureId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /fields/{id}/closures/{id} - Invalid closure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /fields/{id}/closures/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteClosure(r.Context(), actor, fieldID, closureID); err != nil {
		switch {
		case errors.Is(err, fields.ErrFieldNotFound):
			h.logger.Warn("DELETE /fields/{id}/closures/{id} - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, fields.ErrClosureNotFound):
			h.logger.Warn("DELETE /fields/{id}/closures/{id} - Closure not found: field_id=%d, closure_id=%d", fieldID, closureID)
			handlers.RespondNotFound(w, msgClosureNotFound)

		case errors.Is(err, fields.ErrAccessDenied):
			h.logger.Warn("DELETE /fields/{id}/closures/{id} - Access denied: field_id=%d, user_id=%d", fieldID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /fields/{id}/closures/{id} - Failed to delete closure: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /fields/{id}/closures/{id} - Closure deleted: field_id=%d, closure_id=%d", fieldID, closureID)
	w.WriteHeader(http.StatusNoContent)
}
