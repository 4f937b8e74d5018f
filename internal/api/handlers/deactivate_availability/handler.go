package deactivate_availability

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
	msgInvalidID      = "некорректный ID поля или окна"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgFieldNotFound  = "поле не найдено"
	msgWindowNotFound = "окно доступности не найдено"
	msgForbidden      = "расписанием управляет только владелец поля"
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

// Handle DELETE /api/v1/fields/{fieldId}/availability/{availabilityId}
// Окно не удаляется, а выключается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /fields/{id}/availability/{id} - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	availabilityID, err := strconv.ParseInt(vars["availabilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /fields/{id}/availability/{id} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /fields/{id}/availability/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeactivateAvailability(r.Context(), actor, fieldID, availabilityID); err != nil {
		switch {
		case errors.Is(err, fields.ErrFieldNotFound):
			h.logger.Warn("DELETE /fields/{id}/availability/{id} - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, fields.ErrAvailabilityNotFound):
			h.logger.Warn("DELETE /fields/{id}/availability/{id} - Window not found: field_id=%d, window_id=%d", fieldID, availabilityID)
			handlers.RespondNotFound(w, msgWindowNotFound)

		case errors.Is(err, fields.ErrAccessDenied):
			h.logger.Warn("DELETE /fields/{id}/availability/{id} - Access denied: field_id=%d, user_id=%d", fieldID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /fields/{id}/availability/{id} - Failed to deactivate: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /fields/{id}/availability/{id} - Window deactivated: field_id=%d, window_id=%d", fieldID, availabilityID)
	w.WriteHeader(http.StatusNoContent)
}
