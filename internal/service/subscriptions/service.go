package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	subscriptionRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-Marketplace/internal/service/subscriptions/models"
	"github.com/m04kA/SMC-Marketplace/pkg/metrics"
	"github.com/m04kA/SMC-Marketplace/pkg/types"
)

// Service сервис жизненного цикла подписок.
// Фонового планировщика нет: перед каждым чтением, зависящим от того, активна ли
// подписка, просроченные строки пользователя переводятся в expired.
type Service struct {
	subscriptionRepo SubscriptionRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	events           EventRecorder
	logger           Logger
}

// NewService создает новый экземпляр сервиса подписок
func NewService(
	subscriptionRepo SubscriptionRepository,
	txManager TransactionManager,
	events EventRecorder,
	logger Logger,
) *Service {
	if events == nil {
		events = metrics.Nop{}
	}

	return &Service{
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		timeProvider:     realTimeProvider{},
		events:           events,
		logger:           logger,
	}
}

// GetUserSubscriptions возвращает все подписки пользователя после ленивого истечения
func (s *Service) GetUserSubscriptions(ctx context.Context, userID int64) (*models.SubscriptionListResponse, error) {
	s.logger.Info("GetUserSubscriptions: fetching subscriptions for user=%d", userID)

	if err := s.expireOverdue(ctx, userID, nil); err != nil {
		return nil, err
	}

	subs, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserSubscriptions: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserSubscriptions - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserSubscriptions: fetched %d subscriptions for user=%d", len(subs), userID)
	return models.FromDomainSubscriptionList(subs), nil
}

// GetActiveSubscription возвращает активную подписку пользователя на поле, действующую сегодня.
// Если сегодня не покрыт ни один период (например, есть только будущее продление),
// возвращается подписка с самой поздней датой окончания. Без активных - ErrSubscriptionNotFound.
func (s *Service) GetActiveSubscription(ctx context.Context, fieldID, userID int64) (*models.SubscriptionResponse, error) {
	s.logger.Info("GetActiveSubscription: user=%d, field=%d", userID, fieldID)

	if err := s.expireOverdue(ctx, userID, &fieldID); err != nil {
		return nil, err
	}

	active, err := s.subscriptionRepo.GetActiveByFieldAndUser(ctx, fieldID, userID)
	if err != nil {
		s.logger.Error("GetActiveSubscription: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetActiveSubscription - repository error: %w", ErrInternal, err)
	}

	if len(active) == 0 {
		return nil, ErrSubscriptionNotFound
	}

	return models.FromDomainSubscription(pickCurrent(active, types.Today(s.timeProvider.Now()))), nil
}

// Cancel отменяет подписку.
// Отменить может только владелец, и только подписку в статусе active.
func (s *Service) Cancel(ctx context.Context, subscriptionID, userID int64) (*models.SubscriptionResponse, error) {
	s.logger.Info("Cancel: cancelling subscription id=%d by user=%d", subscriptionID, userID)

	today := types.Today(s.timeProvider.Now())
	var result *domain.FieldSubscription

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку подписки
		sub, err := s.subscriptionRepo.GetByID(txCtx, subscriptionID)
		if err != nil {
			if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
				s.logger.Warn("Cancel: subscription id=%d not found", subscriptionID)
				return ErrSubscriptionNotFound
			}
			s.logger.Error("Cancel: repository error for subscription id=%d: %v", subscriptionID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		// 2. Проверяем владельца
		if sub.UserID != userID {
			s.logger.Warn("Cancel: user=%d is not an owner of subscription id=%d", userID, subscriptionID)
			return ErrForbidden
		}

		// 3. Ленивое истечение перед проверкой статуса
		if sub.IsOverdue(today) {
			if err := s.expireOverdue(txCtx, sub.UserID, &sub.FieldID); err != nil {
				return err
			}
			sub.Status = domain.SubscriptionStatusExpired
		}

		if !sub.IsActive() {
			s.logger.Warn("Cancel: subscription id=%d has status %s", subscriptionID, sub.Status)
			return fmt.Errorf("%w: current status is %s", ErrInvalidStateTransition, sub.Status)
		}

		// 4. Меняем статус
		err = s.subscriptionRepo.UpdateStatus(txCtx, sub.ID, domain.SubscriptionStatusActive, domain.SubscriptionStatusCancelled)
		if err != nil {
			if errors.Is(err, subscriptionRepo.ErrStatusChanged) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidStateTransition)
			}
			s.logger.Error("Cancel: repository error for subscription id=%d: %v", subscriptionID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		sub.Status = domain.SubscriptionStatusCancelled
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled subscription id=%d", subscriptionID)
	return models.FromDomainSubscription(result), nil
}

// expireOverdue переводит просроченные активные подписки пользователя в expired.
// Если fieldID задан, затрагивается только это поле.
// pickCurrent выбирает период, покрывающий today, иначе период с самой поздней датой окончания
func pickCurrent(active []*domain.FieldSubscription, today time.Time) *domain.FieldSubscription {
	var current, latest *domain.FieldSubscription
	for _, sub := range active {
		if sub.CoversDate(today) && (current == nil || sub.StartDate.Before(current.StartDate)) {
			current = sub
		}
		if latest == nil || sub.EndDate.After(latest.EndDate) {
			latest = sub
		}
	}
	if current != nil {
		return current
	}
	return latest
}

func (s *Service) expireOverdue(ctx context.Context, userID int64, fieldID *int64) error {
	today := types.Today(s.timeProvider.Now())

	n, err := s.subscriptionRepo.ExpireOverdue(ctx, userID, fieldID, today)
	if err != nil {
		s.logger.Error("expireOverdue: failed for user=%d: %v", userID, err)
		return fmt.Errorf("%w: expireOverdue - repository error: %w", ErrInternal, err)
	}

	if n > 0 {
		s.events.RecordEvent(metrics.EventSubscriptionsExpired)
		s.logger.Info("expireOverdue: expired %d subscriptions of user=%d", n, userID)
	}

	return nil
}
