package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// SubscriptionResponse ответ с данными подписки
type SubscriptionResponse struct {
	ID        int64            `json:"id"`
	FieldID   int64            `json:"fieldId"`
	UserID    int64            `json:"userId"`
	Type      string           `json:"type"`
	PlanID    *int64           `json:"planId,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Currency  string           `json:"currency"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"` // включительно
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SubscriptionListResponse ответ со списком подписок
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

// FromDomainSubscription конвертирует domain модель в DTO
func FromDomainSubscription(s *domain.FieldSubscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}

	resp := &SubscriptionResponse{
		ID:        s.ID,
		FieldID:   s.FieldID,
		UserID:    s.UserID,
		Type:      string(s.Type),
		PlanID:    s.PlanID,
		Currency:  s.Currency,
		StartDate: types.FormatDate(s.StartDate),
		EndDate:   types.FormatDate(s.EndDate),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Price.Valid {
		price := s.Price.Decimal
		resp.Price = &price
	}

	return resp
}

// FromDomainSubscriptionList конвертирует список domain моделей в DTO
func FromDomainSubscriptionList(subs []*domain.FieldSubscription) *SubscriptionListResponse {
	resp := &SubscriptionListResponse{
		Subscriptions: make([]SubscriptionResponse, 0, len(subs)),
	}

	for _, s := range subs {
		if r := FromDomainSubscription(s); r != nil {
			resp.Subscriptions = append(resp.Subscriptions, *r)
		}
	}

	return resp
}
