package create_subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	subscriptionRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-Marketplace/pkg/metrics"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// UseCase use case для оформления и продления подписки на поле
type UseCase struct {
	fieldRepo        FieldRepository
	subscriptionRepo SubscriptionRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	events           EventRecorder
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	fieldRepo FieldRepository,
	subscriptionRepo SubscriptionRepository,
	txManager TransactionManager,
	events EventRecorder,
	logger Logger,
) *UseCase {
	if events == nil {
		events = metrics.Nop{}
	}

	return &UseCase{
		fieldRepo:        fieldRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		timeProvider:     RealTimeProvider{},
		events:           events,
		logger:           logger,
	}
}

// Execute оформляет подписку или продлевает существующую.
//
// Если после ленивого истечения у пользователя остается активная подписка на поле,
// новый период начинается на следующий день после ее окончания независимо
// от запрошенной даты начала.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSubscription: user=%d, field=%d, type=%q", req.UserID, req.FieldID, req.Type)

	today := types.Today(uc.timeProvider.Now())

	// 1. Валидация входных данных
	subType, requestedStart, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateSubscription: validation failed: %v", err)
		return nil, err
	}

	var (
		result  *domain.FieldSubscription
		renewal bool
	)

	// 2. Расчет периода и запись в транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем строку поля
		field, err := uc.fieldRepo.GetByIDForUpdate(txCtx, req.FieldID)
		if err != nil {
			if errors.Is(err, fieldRepo.ErrFieldNotFound) {
				uc.logger.Warn("CreateSubscription: field id=%d not found", req.FieldID)
				return ErrFieldNotFound
			}
			uc.logger.Error("CreateSubscription: failed to lock field id=%d: %v", req.FieldID, err)
			return fmt.Errorf("%w: failed to lock field: %w", ErrInternal, err)
		}

		if !field.IsActive() {
			uc.logger.Warn("CreateSubscription: field id=%d is %s", field.ID, field.Status)
			return ErrNotAvailable
		}

		// 2.2. Ленивое истечение подписок пользователя на это поле
		expired, err := uc.subscriptionRepo.ExpireOverdue(txCtx, req.UserID, &field.ID, today)
		if err != nil {
			uc.logger.Error("CreateSubscription: failed to expire overdue subscriptions: %v", err)
			return fmt.Errorf("%w: failed to expire overdue subscriptions: %w", ErrInternal, err)
		}
		if expired > 0 {
			uc.logger.Info("CreateSubscription: expired %d overdue subscriptions of user=%d on field=%d",
				expired, req.UserID, field.ID)
		}

		// 2.3. Оставшиеся активные подписки (FOR UPDATE)
		active, err := uc.subscriptionRepo.GetActiveByFieldAndUser(txCtx, field.ID, req.UserID)
		if err != nil {
			uc.logger.Error("CreateSubscription: failed to get active subscriptions: %v", err)
			return fmt.Errorf("%w: failed to get active subscriptions: %w", ErrInternal, err)
		}

		// 2.4. Дата начала: продление или запрошенная дата, иначе сегодня
		var start time.Time
		if last, ok := latestEnd(active); ok {
			start = types.AddDays(last, 1)
			renewal = true
		} else {
			start = resolveStart(requestedStart, today)
			if requestedStart != nil && !start.Equal(*requestedStart) {
				uc.logger.Warn("CreateSubscription: requested start %s is in the past, starting today",
					types.FormatDate(*requestedStart))
			}
		}

		sub := &domain.FieldSubscription{
			FieldID:   field.ID,
			UserID:    req.UserID,
			Type:      subType,
			Currency:  domain.DefaultCurrency,
			StartDate: start,
			EndDate:   periodEnd(start, subType),
			Status:    domain.SubscriptionStatusActive,
		}

		// 2.5. Снимок цены из активного публичного плана
		plan, err := uc.subscriptionRepo.GetActivePublicPlan(txCtx, field.ID, subType)
		switch {
		case err == nil:
			sub.PlanID = &plan.ID
			sub.Price = decimal.NewNullDecimal(plan.Price.Round(2))
			if plan.Currency != "" {
				sub.Currency = plan.Currency
			}
		case errors.Is(err, subscriptionRepo.ErrPlanNotFound):
		default:
			uc.logger.Error("CreateSubscription: failed to get plan: %v", err)
			return fmt.Errorf("%w: failed to get plan: %w", ErrInternal, err)
		}

		// 2.6. Сохраняем подписку
		created, err := uc.subscriptionRepo.Create(txCtx, sub)
		if err != nil {
			if errors.Is(err, subscriptionRepo.ErrPeriodOverlap) {
				uc.logger.Warn("CreateSubscription: period %s..%s overlaps an active subscription",
					types.FormatDate(sub.StartDate), types.FormatDate(sub.EndDate))
				return ErrPeriodOverlap
			}
			uc.logger.Error("CreateSubscription: failed to create subscription: %v", err)
			return fmt.Errorf("%w: failed to create subscription: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if renewal {
		uc.events.RecordEvent(metrics.EventSubscriptionRenewed)
	} else {
		uc.events.RecordEvent(metrics.EventSubscriptionCreated)
	}

	uc.logger.Info("CreateSubscription: created subscription id=%d, period %s..%s, renewal=%t",
		result.ID, types.FormatDate(result.StartDate), types.FormatDate(result.EndDate), renewal)

	return toResponse(result, renewal), nil
}

func toResponse(s *domain.FieldSubscription, renewal bool) *Response {
	resp := &Response{
		ID:        s.ID,
		FieldID:   s.FieldID,
		UserID:    s.UserID,
		Type:      string(s.Type),
		PlanID:    s.PlanID,
		Currency:  s.Currency,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    string(s.Status),
		Renewal:   renewal,
		CreatedAt: s.CreatedAt,
	}
	if s.Price.Valid {
		price := s.Price.Decimal
		resp.Price = &price
	}
	return resp
}
