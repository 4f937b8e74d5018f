package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	createBooking "github.com/m04kA/SMC-Marketplace/internal/usecase/create_booking"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BookingDate string           `json:"bookingDate" validate:"required"` // "2025-10-15"
	StartTime   string           `json:"startTime" validate:"required"`   // "10:00"
	EndTime     string           `json:"endTime" validate:"required"`     // "11:30"
	TotalPrice  *decimal.Decimal `json:"totalPrice,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64            `json:"id"`
	FieldID     int64            `json:"fieldId"`
	UserID      int64            `json:"userId"`
	BookingDate string           `json:"bookingDate"`
	StartTime   string           `json:"startTime"`
	EndTime     string           `json:"endTime"`
	Status      string           `json:"status"`
	TotalPrice  *decimal.Decimal `json:"totalPrice,omitempty"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Разбор даты и времени выполняет use case.
func (r *CreateBookingRequest) ToUseCaseRequest(fieldID, userID int64) *createBooking.Request {
	return &createBooking.Request{
		FieldID:     fieldID,
		UserID:      userID,
		BookingDate: r.BookingDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		TotalPrice:  r.TotalPrice,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		FieldID:     resp.FieldID,
		UserID:      resp.UserID,
		BookingDate: types.FormatDate(resp.BookingDate),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		TotalPrice:  resp.TotalPrice,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
