package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	cartRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/cart"
	productRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/product"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart/models"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/pgerr"
)

type fakeCartRepo struct {
	nextCartID int64
	nextItemID int64
	carts      map[int64]*domain.Cart // по userID
	items      map[int64][]*domain.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[int64]*domain.Cart{}, items: map[int64][]*domain.CartItem{}}
}

func (f *fakeCartRepo) EnsureActive(_ context.Context, userID int64) (*domain.Cart, error) {
	if c, ok := f.carts[userID]; ok {
		copied := *c
		return &copied, nil
	}
	f.nextCartID++
	c := &domain.Cart{ID: f.nextCartID, UserID: userID, Status: domain.CartStatusActive}
	f.carts[userID] = c
	copied := *c
	return &copied, nil
}

func (f *fakeCartRepo) GetItems(_ context.Context, cartID int64) ([]*domain.CartItem, error) {
	result := make([]*domain.CartItem, 0, len(f.items[cartID]))
	for _, item := range f.items[cartID] {
		copied := *item
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeCartRepo) GetItem(_ context.Context, cartID, productID int64) (*domain.CartItem, error) {
	for _, item := range f.items[cartID] {
		if item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, cartRepo.ErrItemNotFound
}

func (f *fakeCartRepo) CreateItem(_ context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	f.nextItemID++
	item.ID = f.nextItemID
	stored := *item
	f.items[item.CartID] = append(f.items[item.CartID], &stored)
	return item, nil
}

func (f *fakeCartRepo) UpdateItem(_ context.Context, item *domain.CartItem) error {
	for _, stored := range f.items[item.CartID] {
		if stored.ID == item.ID {
			stored.Quantity = item.Quantity
			stored.UnitPrice = item.UnitPrice
			return nil
		}
	}
	return cartRepo.ErrItemNotFound
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, cartID, productID int64) error {
	items := f.items[cartID]
	for i, item := range items {
		if item.ProductID == productID {
			f.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return cartRepo.ErrItemNotFound
}

type fakeProductRepo struct {
	products map[int64]*domain.Product
	err      error
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService() (*Service, *fakeCartRepo) {
	carts := newFakeCartRepo()
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, MerchantID: 10, Title: "Ball", Price: dec("20.00"), Quantity: 5, IsActive: true},
		2: {ID: 2, MerchantID: 10, Title: "Racket", Price: dec("100.00"), DiscountPercentage: decimal.NewNullDecimal(dec("15")), Quantity: 3, IsActive: true},
		3: {ID: 3, MerchantID: 10, Title: "Net", Price: dec("50.00"), Quantity: 0, IsActive: true},
		4: {ID: 4, MerchantID: 10, Title: "Old", Price: dec("5.00"), Quantity: 9, IsActive: false},
	}}
	return NewService(carts, products, inlineTx{}, logger.NewNop()), carts
}

func TestGetOrCreateActiveCart_Idempotent(t *testing.T) {
	svc, _ := newService()

	first, err := svc.GetOrCreateActiveCart(context.Background(), 42)
	require.NoError(t, err)
	second, err := svc.GetOrCreateActiveCart(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.Items)
	assert.True(t, decimal.Zero.Equal(second.Subtotal))
}

func TestAddItem_MergesQuantityAndSnapshotsDiscountedPrice(t *testing.T) {
	svc, carts := newService()

	_, err := svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 2, Quantity: 1})
	require.NoError(t, err)
	resp, err := svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 2, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.True(t, dec("85.00").Equal(resp.Items[0].UnitPrice))
	assert.True(t, dec("255.00").Equal(resp.Subtotal))
	assert.Equal(t, 3, resp.ItemCount)
	assert.Len(t, carts.items[resp.ID], 1)
}

func TestAddItem_InsufficientStockReportsAvailable(t *testing.T) {
	svc, _ := newService()

	_, err := svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 4})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Contains(t, err.Error(), "only 5 left")

	cart, err := svc.GetOrCreateActiveCart(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItem_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.ItemRequest
		wantErr error
	}{
		{name: "missing product", req: &models.ItemRequest{UserID: 42, ProductID: 99, Quantity: 1}, wantErr: ErrProductNotFound},
		{name: "out of stock", req: &models.ItemRequest{UserID: 42, ProductID: 3, Quantity: 1}, wantErr: ErrOutOfStock},
		{name: "inactive product", req: &models.ItemRequest{UserID: 42, ProductID: 4, Quantity: 1}, wantErr: ErrProductUnavailable},
		{name: "zero quantity", req: &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 0}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()

			_, err := svc.AddItem(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	svc, _ := newService()

	_, err := svc.UpdateItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 2})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 4})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Items[0].Quantity)

	_, err = svc.UpdateItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 6})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newService()

	_, err := svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.RemoveItem(context.Background(), 42, 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.RemoveItem(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestAddItem_LockTimeoutKeepsPostgresCause(t *testing.T) {
	lockTimeout := &pq.Error{Code: pgerr.CodeLockNotAvailable, Message: "canceling statement due to lock timeout"}
	products := &fakeProductRepo{err: fmt.Errorf("%w: GetByID - scan product: %w", productRepo.ErrScanRow, lockTimeout)}
	svc := NewService(newFakeCartRepo(), products, inlineTx{}, logger.NewNop())

	_, err := svc.AddItem(context.Background(), &models.ItemRequest{UserID: 42, ProductID: 1, Quantity: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, pgerr.IsTransient(err), "lock timeout must stay visible to the transaction manager")
}
