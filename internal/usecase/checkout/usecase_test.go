package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	cartRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/cart"
	productRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/product"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/ptr"
)

// memStore хранилище в памяти; memTx откатывает его к снимку при ошибке
type memStore struct {
	nextCartID  int64
	nextOrderID int64
	carts       []*domain.Cart
	items       map[int64][]*domain.CartItem
	stock       map[int64]int
	products    map[int64]*domain.Product
	orders      []*domain.Order

	// failDecrementFor имитирует конкурентное списание остатка товара
	failDecrementFor int64
}

type snapshot struct {
	nextCartID  int64
	nextOrderID int64
	carts       []domain.Cart
	items       map[int64][]domain.CartItem
	stock       map[int64]int
	orders      int
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		nextCartID:  s.nextCartID,
		nextOrderID: s.nextOrderID,
		items:       map[int64][]domain.CartItem{},
		stock:       map[int64]int{},
		orders:      len(s.orders),
	}
	for _, c := range s.carts {
		snap.carts = append(snap.carts, *c)
	}
	for cartID, items := range s.items {
		for _, item := range items {
			snap.items[cartID] = append(snap.items[cartID], *item)
		}
	}
	for id, q := range s.stock {
		snap.stock[id] = q
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.nextCartID = snap.nextCartID
	s.nextOrderID = snap.nextOrderID
	s.carts = nil
	for i := range snap.carts {
		c := snap.carts[i]
		s.carts = append(s.carts, &c)
	}
	s.items = map[int64][]*domain.CartItem{}
	for cartID, items := range snap.items {
		for i := range items {
			item := items[i]
			s.items[cartID] = append(s.items[cartID], &item)
		}
	}
	s.stock = snap.stock
	s.orders = s.orders[:snap.orders]
}

type memTx struct{ store *memStore }

func (m memTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type memCarts struct{ *memStore }

func (s memCarts) GetActive(_ context.Context, userID int64) (*domain.Cart, error) {
	for _, c := range s.carts {
		if c.UserID == userID && c.Status == domain.CartStatusActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, cartRepo.ErrCartNotFound
}

func (s memCarts) GetItems(_ context.Context, cartID int64) ([]*domain.CartItem, error) {
	result := make([]*domain.CartItem, 0)
	for _, item := range s.items[cartID] {
		copied := *item
		result = append(result, &copied)
	}
	return result, nil
}

func (s memCarts) SetStatus(_ context.Context, cartID int64, status domain.CartStatus) error {
	for _, c := range s.carts {
		if c.ID == cartID {
			c.Status = status
			return nil
		}
	}
	return cartRepo.ErrCartNotFound
}

func (s memCarts) DeleteItems(_ context.Context, cartID int64) error {
	delete(s.items, cartID)
	return nil
}

func (s memCarts) EnsureActive(ctx context.Context, userID int64) (*domain.Cart, error) {
	if c, err := s.GetActive(ctx, userID); err == nil {
		return c, nil
	}
	s.nextCartID++
	c := &domain.Cart{ID: s.nextCartID, UserID: userID, Status: domain.CartStatusActive}
	s.carts = append(s.carts, c)
	copied := *c
	return &copied, nil
}

type memProducts struct{ *memStore }

func (s memProducts) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	result := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			copied := *p
			copied.Quantity = s.stock[id]
			result[id] = &copied
		}
	}
	return result, nil
}

func (s memProducts) DecrementStock(_ context.Context, id int64, quantity int) error {
	if id == s.failDecrementFor || s.stock[id] < quantity {
		return productRepo.ErrInsufficientStock
	}
	s.stock[id] -= quantity
	return nil
}

type memOrders struct{ *memStore }

func (s memOrders) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.nextOrderID++
	order.ID = s.nextOrderID
	s.orders = append(s.orders, order)
	return order, nil
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// newStore корзина пользователя 42: товары двух мерчантов, у мерчанта 20 два магазина
func newStore() *memStore {
	s := &memStore{
		nextCartID: 1,
		carts:      []*domain.Cart{{ID: 1, UserID: 42, Status: domain.CartStatusActive}},
		items: map[int64][]*domain.CartItem{1: {
			{ID: 1, CartID: 1, ProductID: 3, Quantity: 2, UnitPrice: dec("1.00")},
			{ID: 2, CartID: 1, ProductID: 1, Quantity: 3, UnitPrice: dec("10.00")},
			{ID: 3, CartID: 1, ProductID: 2, Quantity: 1, UnitPrice: dec("99.99")},
			{ID: 4, CartID: 1, ProductID: 4, Quantity: 1, UnitPrice: dec("7.00")},
		}},
		products: map[int64]*domain.Product{
			1: {ID: 1, MerchantID: 10, Title: "Ball", Price: dec("10.00"), IsActive: true},
			2: {ID: 2, MerchantID: 10, Title: "Racket", Price: dec("100.00"), DiscountPercentage: decimal.NewNullDecimal(dec("15")), IsActive: true},
			3: {ID: 3, MerchantID: 20, StoreID: ptr.Ptr(int64(5)), Title: "Shoes", Price: dec("60.00"), IsActive: true},
			4: {ID: 4, MerchantID: 20, Title: "Socks", Price: dec("7.00"), IsActive: true},
		},
		stock: map[int64]int{1: 10, 2: 1, 3: 4, 4: 2},
	}
	return s
}

func newUseCase(s *memStore) *UseCase {
	return NewUseCase(memCarts{s}, memProducts{s}, memOrders{s}, memTx{s}, nil, logger.NewNop())
}

func TestExecute_SplitsByMerchantAndStore(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 42})
	require.NoError(t, err)

	require.Len(t, resp.Orders, 3)
	assert.Equal(t, 3, resp.OrderCount)
	assert.Equal(t, 7, resp.ItemCount)

	// мерчант 10 без магазина
	assert.Equal(t, int64(10), resp.Orders[0].MerchantID)
	assert.Nil(t, resp.Orders[0].StoreID)
	require.Len(t, resp.Orders[0].Items, 2)
	assert.Equal(t, "Ball", resp.Orders[0].Items[0].ProductTitle)
	assert.True(t, dec("30.00").Equal(resp.Orders[0].Items[0].LineTotal))
	assert.True(t, dec("85.00").Equal(resp.Orders[0].Items[1].UnitPrice), "unit price refreshed from product")
	assert.True(t, dec("115.00").Equal(resp.Orders[0].Total))

	// мерчант 20: сначала без магазина, затем магазин 5
	assert.Equal(t, int64(20), resp.Orders[1].MerchantID)
	assert.Nil(t, resp.Orders[1].StoreID)
	assert.True(t, dec("7.00").Equal(resp.Orders[1].Total))
	assert.Equal(t, int64(20), resp.Orders[2].MerchantID)
	require.NotNil(t, resp.Orders[2].StoreID)
	assert.Equal(t, int64(5), *resp.Orders[2].StoreID)
	assert.True(t, dec("120.00").Equal(resp.Orders[2].Total))

	// сумма заказов равна итогу
	assert.True(t, dec("242.00").Equal(resp.GrandTotal))
	for _, order := range resp.Orders {
		lines := decimal.Zero
		for _, item := range order.Items {
			lines = lines.Add(item.LineTotal)
		}
		assert.True(t, lines.Equal(order.Total))
	}

	// остатки списаны, корзина закрыта, открыта новая пустая
	assert.Equal(t, map[int64]int{1: 7, 2: 0, 3: 2, 4: 1}, s.stock)
	assert.Equal(t, domain.CartStatusCheckedOut, s.carts[0].Status)
	assert.Empty(t, s.items[1])
	assert.NotEqual(t, int64(1), resp.NewCartID)
	active, err := memCarts{s}.GetActive(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, resp.NewCartID, active.ID)
}

func TestExecute_TwoMerchantsTotalsMatchCartSubtotal(t *testing.T) {
	s := newStore()
	s.items[1] = []*domain.CartItem{
		{ID: 1, CartID: 1, ProductID: 1, Quantity: 2, UnitPrice: dec("10.00")},
		{ID: 2, CartID: 1, ProductID: 4, Quantity: 2, UnitPrice: dec("7.00")},
	}
	cart := &domain.Cart{Items: s.items[1]}
	subtotal := cart.Subtotal()

	resp, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	require.NoError(t, err)

	require.Len(t, resp.Orders, 2)
	assert.True(t, subtotal.Equal(resp.Orders[0].Total.Add(resp.Orders[1].Total)))
	assert.True(t, subtotal.Equal(resp.GrandTotal))
}

func TestExecute_InsufficientStockRollsBackEverything(t *testing.T) {
	s := newStore()
	s.items[1][2].Quantity = 2 // Racket: 2 при остатке 1

	_, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)

	assert.Empty(t, s.orders)
	assert.Equal(t, map[int64]int{1: 10, 2: 1, 3: 4, 4: 2}, s.stock)
	assert.Equal(t, domain.CartStatusActive, s.carts[0].Status)
	assert.Len(t, s.items[1], 4)
}

func TestExecute_OutOfStock(t *testing.T) {
	s := newStore()
	s.stock[4] = 0

	_, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, s.orders)
}

func TestExecute_DecrementFailureAfterWritesRollsBack(t *testing.T) {
	s := newStore()
	s.failDecrementFor = 3 // третий заказ, первые два уже записаны

	_, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Empty(t, s.orders)
	assert.Equal(t, map[int64]int{1: 10, 2: 1, 3: 4, 4: 2}, s.stock)
	assert.Equal(t, domain.CartStatusActive, s.carts[0].Status)
	assert.Len(t, s.carts, 1)
}

func TestExecute_EmptyCart(t *testing.T) {
	s := newStore()
	s.items = map[int64][]*domain.CartItem{}

	_, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = newUseCase(s).Execute(context.Background(), &Request{UserID: 7})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestExecute_ProductGoneOrInactive(t *testing.T) {
	s := newStore()
	s.products[1].IsActive = false

	_, err := newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	delete(s.products, 1)
	_, err = newUseCase(s).Execute(context.Background(), &Request{UserID: 42})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
