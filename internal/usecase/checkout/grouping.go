package checkout

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/pkg/money"
)

// checkoutLine позиция корзины, сверенная с заблокированным товаром
type checkoutLine struct {
	item    *domain.CartItem
	product *domain.Product
}

// validateLines сверяет каждую позицию с текущим состоянием товара
// и обновляет цену позиции до актуальной
func validateLines(items []*domain.CartItem, products map[int64]*domain.Product) ([]checkoutLine, error) {
	lines := make([]checkoutLine, 0, len(items))

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product id=%d", ErrProductNotFound, item.ProductID)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Title)
		}
		if !product.InStock() {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Title)
		}
		if item.Quantity > product.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: item.Quantity,
				Available: product.Quantity,
			}
		}

		item.UnitPrice = product.EffectivePrice()
		lines = append(lines, checkoutLine{item: item, product: product})
	}

	return lines, nil
}

// buildOrders разбивает позиции на заказы по паре (мерчант, магазин).
// Заказы упорядочены по мерчанту и магазину, позиции внутри заказа сохраняют порядок корзины.
func buildOrders(userID int64, lines []checkoutLine) []*domain.Order {
	keys := make([]domain.OrderGroupKey, 0)
	groups := make(map[domain.OrderGroupKey][]checkoutLine)

	for _, line := range lines {
		key := groupKey(line.product, keys)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], line)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})

	orders := make([]*domain.Order, 0, len(keys))
	for _, key := range keys {
		order := &domain.Order{
			UserID:     userID,
			MerchantID: key.MerchantID,
			StoreID:    key.StoreID,
			Status:     domain.OrderStatusPending,
			Items:      make([]*domain.OrderItem, 0, len(groups[key])),
		}

		totals := make([]decimal.Decimal, 0, len(groups[key]))
		for _, line := range groups[key] {
			lineTotal := money.LineTotal(line.item.UnitPrice, line.item.Quantity)
			totals = append(totals, lineTotal)

			order.Items = append(order.Items, &domain.OrderItem{
				ProductID:    line.product.ID,
				ProductTitle: line.product.Title,
				ProductImage: line.product.ImageURL,
				UnitPrice:    line.item.UnitPrice,
				Quantity:     line.item.Quantity,
				LineTotal:    lineTotal,
			})
		}

		order.Subtotal = money.Sum(totals...)
		order.Total = order.Subtotal
		orders = append(orders, order)
	}

	return orders
}

// groupKey возвращает ключ группы товара, переиспользуя уже встреченный равный ключ.
// StoreID - указатель, поэтому равные ключи из разных товаров не совпадают как ключи map.
func groupKey(product *domain.Product, seen []domain.OrderGroupKey) domain.OrderGroupKey {
	key := domain.OrderGroupKey{MerchantID: product.MerchantID, StoreID: product.StoreID}
	for _, k := range seen {
		if k.Equal(key) {
			return k
		}
	}
	return key
}
