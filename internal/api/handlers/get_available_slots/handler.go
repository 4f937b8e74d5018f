package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-Marketplace/internal/usecase/get_available_slots"
)

const (
	msgInvalidFieldID = "некорректный ID поля"
	msgInvalidQuery   = "некорректные параметры: startDate (YYYY-MM-DD), days и slotMinutes (целые числа)"
	msgInvalidInput   = "некорректный диапазон дат или длина слота"
	msgFieldNotFound  = "поле не найдено"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/available-slots
// Query params: startDate (YYYY-MM-DD), days, slotMinutes - все необязательны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/available-slots - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(fieldID, query.Get("startDate"), query.Get("days"), query.Get("slotMinutes"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/available-slots - Invalid input: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/available-slots - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		default:
			h.logger.Error("GET /fields/{id}/available-slots - Failed to get slots: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /fields/{id}/available-slots - Slots retrieved successfully: field_id=%d, days=%d",
		fieldID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
