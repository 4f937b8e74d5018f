package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	cartRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/cart"
	productRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/product"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart/models"
)

// Service сервис корзины пользователя.
// У пользователя не больше одной активной корзины, она создается лениво.
type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса корзины
func NewService(
	cartRepo CartRepository,
	productRepo ProductRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetOrCreateActiveCart возвращает активную корзину пользователя с позициями.
// Повторные вызовы возвращают одну и ту же корзину.
func (s *Service) GetOrCreateActiveCart(ctx context.Context, userID int64) (*models.CartResponse, error) {
	s.logger.Info("GetOrCreateActiveCart: user=%d", userID)

	return s.mutate(ctx, "GetOrCreateActiveCart", userID, func(context.Context, *domain.Cart) error {
		return nil
	})
}

// AddItem добавляет товар в корзину. Если товар уже есть, количество суммируется.
// Цена позиции обновляется до текущей цены товара с учетом скидки.
func (s *Service) AddItem(ctx context.Context, req *models.ItemRequest) (*models.CartResponse, error) {
	s.logger.Info("AddItem: user=%d, product=%d, quantity=%d", req.UserID, req.ProductID, req.Quantity)

	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "AddItem", req.UserID, func(txCtx context.Context, c *domain.Cart) error {
		// 1. Блокируем товар и проверяем доступность
		product, err := s.lockProduct(txCtx, "AddItem", req.ProductID)
		if err != nil {
			return err
		}

		// 2. Ищем существующую позицию
		existing, err := s.cartRepo.GetItem(txCtx, c.ID, req.ProductID)
		if err != nil && !errors.Is(err, cartRepo.ErrItemNotFound) {
			s.logger.Error("AddItem: failed to get cart item: %v", err)
			return fmt.Errorf("%w: AddItem - failed to get cart item: %w", ErrInternal, err)
		}

		quantity := req.Quantity
		if existing != nil {
			quantity += existing.Quantity
		}

		// 3. Проверяем остаток с учетом уже лежащего в корзине
		if err := checkStock(product, quantity); err != nil {
			s.logger.Warn("AddItem: %v", err)
			return err
		}

		unitPrice := product.EffectivePrice()

		// 4. Обновляем или создаем позицию
		if existing != nil {
			existing.Quantity = quantity
			existing.UnitPrice = unitPrice
			if err := s.cartRepo.UpdateItem(txCtx, existing); err != nil {
				s.logger.Error("AddItem: failed to update cart item: %v", err)
				return fmt.Errorf("%w: AddItem - failed to update cart item: %w", ErrInternal, err)
			}
			return nil
		}

		_, err = s.cartRepo.CreateItem(txCtx, &domain.CartItem{
			CartID:    c.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		})
		if err != nil {
			s.logger.Error("AddItem: failed to create cart item: %v", err)
			return fmt.Errorf("%w: AddItem - failed to create cart item: %w", ErrInternal, err)
		}
		return nil
	})
}

// UpdateItem устанавливает количество товара в корзине
func (s *Service) UpdateItem(ctx context.Context, req *models.ItemRequest) (*models.CartResponse, error) {
	s.logger.Info("UpdateItem: user=%d, product=%d, quantity=%d", req.UserID, req.ProductID, req.Quantity)

	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "UpdateItem", req.UserID, func(txCtx context.Context, c *domain.Cart) error {
		item, err := s.cartRepo.GetItem(txCtx, c.ID, req.ProductID)
		if err != nil {
			if errors.Is(err, cartRepo.ErrItemNotFound) {
				s.logger.Warn("UpdateItem: product=%d is not in cart id=%d", req.ProductID, c.ID)
				return ErrItemNotFound
			}
			s.logger.Error("UpdateItem: failed to get cart item: %v", err)
			return fmt.Errorf("%w: UpdateItem - failed to get cart item: %w", ErrInternal, err)
		}

		product, err := s.lockProduct(txCtx, "UpdateItem", req.ProductID)
		if err != nil {
			return err
		}

		if err := checkStock(product, req.Quantity); err != nil {
			s.logger.Warn("UpdateItem: %v", err)
			return err
		}

		item.Quantity = req.Quantity
		item.UnitPrice = product.EffectivePrice()
		if err := s.cartRepo.UpdateItem(txCtx, item); err != nil {
			s.logger.Error("UpdateItem: failed to update cart item: %v", err)
			return fmt.Errorf("%w: UpdateItem - failed to update cart item: %w", ErrInternal, err)
		}
		return nil
	})
}

// RemoveItem удаляет товар из корзины
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) (*models.CartResponse, error) {
	s.logger.Info("RemoveItem: user=%d, product=%d", userID, productID)

	return s.mutate(ctx, "RemoveItem", userID, func(txCtx context.Context, c *domain.Cart) error {
		if err := s.cartRepo.DeleteItem(txCtx, c.ID, productID); err != nil {
			if errors.Is(err, cartRepo.ErrItemNotFound) {
				s.logger.Warn("RemoveItem: product=%d is not in cart id=%d", productID, c.ID)
				return ErrItemNotFound
			}
			s.logger.Error("RemoveItem: failed to delete cart item: %v", err)
			return fmt.Errorf("%w: RemoveItem - failed to delete cart item: %w", ErrInternal, err)
		}
		return nil
	})
}

// Вспомогательные методы

// mutate выполняет изменение активной корзины в транзакции и возвращает ее новое состояние
func (s *Service) mutate(
	ctx context.Context,
	op string,
	userID int64,
	fn func(txCtx context.Context, c *domain.Cart) error,
) (*models.CartResponse, error) {
	var result *domain.Cart

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		c, err := s.cartRepo.EnsureActive(txCtx, userID)
		if err != nil {
			s.logger.Error("%s: failed to get active cart for user=%d: %v", op, userID, err)
			return fmt.Errorf("%w: %s - failed to get active cart: %w", ErrInternal, op, err)
		}

		if err := fn(txCtx, c); err != nil {
			return err
		}

		items, err := s.cartRepo.GetItems(txCtx, c.ID)
		if err != nil {
			s.logger.Error("%s: failed to get cart items: %v", op, err)
			return fmt.Errorf("%w: %s - failed to get cart items: %w", ErrInternal, op, err)
		}

		c.Items = items
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: cart id=%d now has %d items", op, result.ID, result.ItemCount())
	return models.FromDomainCart(result), nil
}

// lockProduct блокирует строку товара и проверяет, что он продается и есть в наличии
func (s *Service) lockProduct(ctx context.Context, op string, productID int64) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			s.logger.Warn("%s: product id=%d not found", op, productID)
			return nil, ErrProductNotFound
		}
		s.logger.Error("%s: failed to get product id=%d: %v", op, productID, err)
		return nil, fmt.Errorf("%w: %s - failed to get product: %w", ErrInternal, op, err)
	}

	if !product.IsActive {
		s.logger.Warn("%s: product id=%d is not active", op, productID)
		return nil, ErrProductUnavailable
	}

	if !product.InStock() {
		s.logger.Warn("%s: product id=%d is out of stock", op, productID)
		return nil, ErrOutOfStock
	}

	return product, nil
}

func checkStock(product *domain.Product, quantity int) error {
	if quantity > product.Quantity {
		return &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: quantity,
			Available: product.Quantity,
		}
	}
	return nil
}

func validateItemRequest(req *models.ItemRequest) error {
	if req.ProductID <= 0 {
		return fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
	}
	if req.Quantity < domain.MinItemQuantity || req.Quantity > domain.MaxItemQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrInvalidInput, domain.MinItemQuantity, domain.MaxItemQuantity)
	}
	return nil
}
