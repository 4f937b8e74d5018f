package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	cartRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/cart"
	productRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/product"
	"github.com/m04kA/SMC-Marketplace/pkg/metrics"
	"github.com/m04kA/SMC-Marketplace/pkg/money"
)

// UseCase use case оформления заказа из активной корзины
type UseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	orderRepo   OrderRepository
	txManager   TransactionManager
	events      EventRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	cartRepo CartRepository,
	productRepo ProductRepository,
	orderRepo OrderRepository,
	txManager TransactionManager,
	events EventRecorder,
	logger Logger,
) *UseCase {
	if events == nil {
		events = metrics.Nop{}
	}

	return &UseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// Execute превращает активную корзину в заказы одной транзакцией.
// Любая ошибка откатывает все: заказы, списание остатков и смену статуса корзины.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Checkout: user=%d", req.UserID)

	var resp *Response

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем активную корзину и ее позиции
		cart, err := uc.cartRepo.GetActive(txCtx, req.UserID)
		if err != nil {
			if errors.Is(err, cartRepo.ErrCartNotFound) {
				uc.logger.Warn("Checkout: user=%d has no active cart", req.UserID)
				return ErrEmptyCart
			}
			uc.logger.Error("Checkout: failed to lock cart: %v", err)
			return fmt.Errorf("%w: failed to lock cart: %w", ErrInternal, err)
		}

		items, err := uc.cartRepo.GetItems(txCtx, cart.ID)
		if err != nil {
			uc.logger.Error("Checkout: failed to lock cart items: %v", err)
			return fmt.Errorf("%w: failed to lock cart items: %w", ErrInternal, err)
		}
		if len(items) == 0 {
			uc.logger.Warn("Checkout: cart id=%d is empty", cart.ID)
			return ErrEmptyCart
		}

		// 2. Блокируем все товары одним запросом в порядке id
		products, err := uc.productRepo.GetByIDs(txCtx, productIDs(items))
		if err != nil {
			uc.logger.Error("Checkout: failed to lock products: %v", err)
			return fmt.Errorf("%w: failed to lock products: %w", ErrInternal, err)
		}

		// 3. Повторная проверка позиций после блокировки
		lines, err := validateLines(items, products)
		if err != nil {
			uc.logger.Warn("Checkout: cart id=%d failed validation: %v", cart.ID, err)
			return err
		}

		// 4. Разбиваем на заказы по мерчанту и магазину
		orders := buildOrders(req.UserID, lines)

		// 5. Создаем заказы и списываем остатки
		for _, order := range orders {
			if _, err := uc.orderRepo.Create(txCtx, order); err != nil {
				uc.logger.Error("Checkout: failed to create order for merchant=%d: %v", order.MerchantID, err)
				return fmt.Errorf("%w: failed to create order: %w", ErrInternal, err)
			}

			for _, item := range order.Items {
				if err := uc.productRepo.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
					if errors.Is(err, productRepo.ErrInsufficientStock) {
						return &domain.InsufficientStockError{
							ProductID: item.ProductID,
							Requested: item.Quantity,
							Available: products[item.ProductID].Quantity,
						}
					}
					uc.logger.Error("Checkout: failed to decrement stock of product=%d: %v", item.ProductID, err)
					return fmt.Errorf("%w: failed to decrement stock: %w", ErrInternal, err)
				}
			}
		}

		// 6. Закрываем корзину и открываем новую
		if err := uc.cartRepo.SetStatus(txCtx, cart.ID, domain.CartStatusCheckedOut); err != nil {
			uc.logger.Error("Checkout: failed to close cart id=%d: %v", cart.ID, err)
			return fmt.Errorf("%w: failed to close cart: %w", ErrInternal, err)
		}

		if err := uc.cartRepo.DeleteItems(txCtx, cart.ID); err != nil {
			uc.logger.Error("Checkout: failed to clear cart id=%d: %v", cart.ID, err)
			return fmt.Errorf("%w: failed to clear cart: %w", ErrInternal, err)
		}

		newCart, err := uc.cartRepo.EnsureActive(txCtx, req.UserID)
		if err != nil {
			uc.logger.Error("Checkout: failed to create new cart: %v", err)
			return fmt.Errorf("%w: failed to create new cart: %w", ErrInternal, err)
		}

		resp = summarize(orders, newCart.ID)
		return nil
	})

	if err != nil {
		uc.events.RecordEvent(metrics.EventCheckoutFailed)
		return nil, err
	}

	uc.events.RecordEvent(metrics.EventCheckoutCompleted)
	for range resp.Orders {
		uc.events.RecordEvent(metrics.EventOrderCreated)
	}

	uc.logger.Info("Checkout: user=%d created %d orders, %d items, total=%s",
		req.UserID, resp.OrderCount, resp.ItemCount, resp.GrandTotal.StringFixed(money.Scale))

	return resp, nil
}

func productIDs(items []*domain.CartItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func summarize(orders []*domain.Order, newCartID int64) *Response {
	totals := make([]decimal.Decimal, 0, len(orders))
	itemCount := 0
	for _, order := range orders {
		totals = append(totals, order.Total)
		itemCount += order.ItemCount()
	}

	return &Response{
		Orders:     orders,
		OrderCount: len(orders),
		ItemCount:  itemCount,
		GrandTotal: money.Sum(totals...),
		NewCartID:  newCartID,
	}
}
