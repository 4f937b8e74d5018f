package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	orderRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/order"
	"github.com/m04kA/SMC-Marketplace/internal/service/orders/models"
)

// Service сервис для работы с заказами
type Service struct {
	orderRepo    OrderRepository
	merchantRepo MerchantRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса заказов
func NewService(
	orderRepo OrderRepository,
	merchantRepo MerchantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		orderRepo:    orderRepo,
		merchantRepo: merchantRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает заказ по ID
// Доступ есть у покупателя, владельца мерчанта заказа и администратора
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.OrderResponse, error) {
	s.logger.Info("GetByID: fetching order id=%d for user=%d", id, actor.UserID)

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("GetByID: order id=%d not found", id)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("GetByID: repository error for order id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if order.UserID != actor.UserID && !actor.IsAdmin() {
		if err := s.checkMerchantOwner(ctx, order.MerchantID, actor.UserID); err != nil {
			return nil, err
		}
	}

	return models.FromDomainOrder(order), nil
}

// GetUserOrders получает заказы пользователя, новые первыми.
// Заказы и их позиции читаются двумя запросами в одном снимке (read-only транзакция).
func (s *Service) GetUserOrders(ctx context.Context, userID int64) (*models.OrderListResponse, error) {
	s.logger.Info("GetUserOrders: fetching orders for user=%d", userID)

	var orders []*domain.Order
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		orders, err = s.orderRepo.GetByUserID(txCtx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("GetUserOrders: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserOrders - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserOrders: fetched %d orders for user=%d", len(orders), userID)
	return models.FromDomainOrderList(orders), nil
}

// UpdateStatus меняет статус заказа.
// Доступно только владельцу мерчанта заказа. Завершенные и отмененные заказы не меняются.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, req *models.UpdateStatusRequest) (*models.OrderResponse, error) {
	s.logger.Info("UpdateStatus: updating order id=%d to status=%s by user=%d", orderID, req.Status, req.Actor.UserID)

	newStatus := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !newStatus.IsValid() {
		s.logger.Warn("UpdateStatus: unknown status=%q for order id=%d", req.Status, orderID)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStateTransition, req.Status)
	}

	var result *domain.Order

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем заказ
		order, err := s.orderRepo.GetByID(txCtx, orderID)
		if err != nil {
			if errors.Is(err, orderRepo.ErrOrderNotFound) {
				s.logger.Warn("UpdateStatus: order id=%d not found", orderID)
				return ErrOrderNotFound
			}
			s.logger.Error("UpdateStatus: repository error for order id=%d: %v", orderID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		// 2. Проверяем владельца мерчанта
		if err := s.checkMerchantOwner(txCtx, order.MerchantID, req.Actor.UserID); err != nil {
			return err
		}

		// 3. Проверяем переход
		if order.Status.IsTerminal() || order.Status == newStatus {
			s.logger.Warn("UpdateStatus: order id=%d cannot change status %s -> %s", orderID, order.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, order.Status, newStatus)
		}

		// 4. Обновляем статус
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, order.Status, newStatus); err != nil {
			if errors.Is(err, orderRepo.ErrStatusChanged) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidStateTransition)
			}
			s.logger.Error("UpdateStatus: repository error for order id=%d: %v", orderID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		order.Status = newStatus
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: order id=%d is now %s", orderID, newStatus)
	return models.FromDomainOrder(result), nil
}

// checkMerchantOwner проверяет, что пользователь владеет мерчантом
func (s *Service) checkMerchantOwner(ctx context.Context, merchantID, userID int64) error {
	isOwner, err := s.merchantRepo.IsOwner(ctx, merchantID, userID)
	if err != nil {
		s.logger.Error("checkMerchantOwner: failed to check merchant id=%d: %v", merchantID, err)
		return fmt.Errorf("%w: checkMerchantOwner - repository error: %w", ErrInternal, err)
	}
	if !isOwner {
		s.logger.Warn("checkMerchantOwner: user=%d is not an owner of merchant=%d", userID, merchantID)
		return ErrForbidden
	}
	return nil
}
