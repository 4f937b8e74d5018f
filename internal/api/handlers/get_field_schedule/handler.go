package get_field_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/service/fields"
)

const (
	msgInvalidFieldID = "некорректный ID поля"
	msgFieldNotFound  = "поле не найдено"
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

// Handle GET /api/v1/fields/{fieldId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/schedule - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), fieldID)
	if err != nil {
		if errors.Is(err, fields.ErrFieldNotFound) {
			h.logger.Warn("GET /fields/{id}/schedule - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)
			return
		}
		h.logger.Error("GET /fields/{id}/schedule - Failed to get schedule: field_id=%d, error=%v", fieldID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /fields/{id}/schedule - Schedule retrieved: field_id=%d, windows=%d, closures=%d",
		fieldID, len(schedule.Availability), len(schedule.Closures))
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
