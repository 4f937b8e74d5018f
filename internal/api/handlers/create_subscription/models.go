package create_subscription

import (
	"time"

	"github.com/shopspring/decimal"

	createSubscription "github.com/m04kA/SMC-Marketplace/internal/usecase/create_subscription"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// CreateSubscriptionRequest HTTP request model
type CreateSubscriptionRequest struct {
	Type      string  `json:"type" validate:"required"` // monthly | quarterly | yearly
	StartDate *string `json:"startDate,omitempty"`      // "2025-10-15", по умолчанию сегодня
}

// SubscriptionResponse HTTP response model
type SubscriptionResponse struct {
	ID        int64            `json:"id"`
	FieldID   int64            `json:"fieldId"`
	UserID    int64            `json:"userId"`
	Type      string           `json:"type"`
	PlanID    *int64           `json:"planId,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Currency  string           `json:"currency"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Status    string           `json:"status"`
	Renewal   bool             `json:"renewal"`
	CreatedAt string           `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSubscriptionRequest) ToUseCaseRequest(fieldID, userID int64) *createSubscription.Request {
	return &createSubscription.Request{
		FieldID:   fieldID,
		UserID:    userID,
		Type:      r.Type,
		StartDate: r.StartDate,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSubscription.Response) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:        resp.ID,
		FieldID:   resp.FieldID,
		UserID:    resp.UserID,
		Type:      resp.Type,
		PlanID:    resp.PlanID,
		Price:     resp.Price,
		Currency:  resp.Currency,
		StartDate: types.FormatDate(resp.StartDate),
		EndDate:   types.FormatDate(resp.EndDate),
		Status:    resp.Status,
		Renewal:   resp.Renewal,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
