package get_field_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/service/bookings"
)

const (
	msgInvalidFieldID = "некорректный ID поля"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidQuery   = "некорректные параметры: startDate и endDate (YYYY-MM-DD) обязательны, includeInactive true|false"
	msgInvalidPeriod  = "конец периода раньше начала"
	msgFieldNotFound  = "поле не найдено"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/bookings
// Query params: startDate, endDate (YYYY-MM-DD, обязательны), includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/bookings - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /fields/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(actor, fieldID, query.Get("startDate"), query.Get("endDate"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.GetFieldBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/bookings - Invalid period: field_id=%d", fieldID)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, bookings.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/bookings - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /fields/{id}/bookings - Access denied: field_id=%d, user_id=%d", fieldID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /fields/{id}/bookings - Failed to get bookings: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/bookings - Bookings retrieved successfully: field_id=%d, count=%d",
		fieldID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
