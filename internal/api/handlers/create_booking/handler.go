package create_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-Marketplace/internal/usecase/create_booking"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFieldID     = "некорректный ID поля"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные дата или время бронирования"
	msgFieldNotFound      = "поле не найдено"
	msgNotAvailable       = "поле недоступно для бронирования в выбранную дату"
	msgOutsideHours       = "выбранное время выходит за часы работы поля"
	msgSlotConflict       = "выбранный интервал уже забронирован"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/fields/{fieldId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /fields/{id}/bookings - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /fields/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /fields/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(fieldID, userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /fields/{id}/bookings - Invalid input: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrFieldNotFound):
			h.logger.Warn("POST /fields/{id}/bookings - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, createBooking.ErrNotAvailable):
			h.logger.Warn("POST /fields/{id}/bookings - Field not available: field_id=%d, date=%s", fieldID, req.BookingDate)
			handlers.RespondUnprocessable(w, msgNotAvailable)

		case errors.Is(err, createBooking.ErrOutsideHours):
			h.logger.Warn("POST /fields/{id}/bookings - Outside hours: field_id=%d, %s-%s", fieldID, req.StartTime, req.EndTime)
			handlers.RespondUnprocessable(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /fields/{id}/bookings - Slot conflict: field_id=%d, user_id=%d", fieldID, userID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("POST /fields/{id}/bookings - Transient failure: field_id=%d, error=%v", fieldID, err)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /fields/{id}/bookings - Failed to create booking: field_id=%d, user_id=%d, error=%v",
				fieldID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /fields/{id}/bookings - Booking created successfully: booking_id=%d, field_id=%d, user_id=%d",
		result.ID, fieldID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
