package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
	orderRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/order"
	"github.com/m04kA/SMC-Marketplace/internal/service/orders/models"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
)

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderRepo.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderRepo) GetByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	result := make([]*domain.Order, 0)
	for _, o := range f.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, from, to domain.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return orderRepo.ErrStatusChanged
	}
	o.Status = to
	return nil
}

type fakeMerchantRepo struct{}

func (fakeMerchantRepo) IsOwner(_ context.Context, merchantID, userID int64) (bool, error) {
	return merchantID == 10 && userID == 500, nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// readOnlyTx считает вызовы DoReadOnly, Do запрещен
type readOnlyTx struct {
	readOnlyCalls int
}

func (tx *readOnlyTx) Do(context.Context, func(ctx context.Context) error) error {
	return errors.New("unexpected read-write transaction")
}

func (tx *readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.readOnlyCalls++
	return fn(ctx)
}

var (
	buyer    = domain.Actor{UserID: 42, Role: domain.RoleUser}
	merchant = domain.Actor{UserID: 500, Role: domain.RoleMerchant}
	admin    = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	stranger = domain.Actor{UserID: 7, Role: domain.RoleUser}
)

func newService(status domain.OrderStatus) (*Service, *fakeOrderRepo) {
	repo := &fakeOrderRepo{orders: map[int64]*domain.Order{
		1: {
			ID: 1, UserID: 42, MerchantID: 10, Status: status,
			Subtotal: decimal.RequireFromString("30.00"), Total: decimal.RequireFromString("30.00"),
			Items: []*domain.OrderItem{{ID: 1, ProductID: 3, ProductTitle: "Ball", Quantity: 3,
				UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("30.00")}},
		},
	}}
	return NewService(repo, fakeMerchantRepo{}, inlineTx{}, logger.NewNop()), repo
}

func TestGetByID_Access(t *testing.T) {
	svc, _ := newService(domain.OrderStatusPending)

	for _, actor := range []domain.Actor{buyer, merchant, admin} {
		resp, err := svc.GetByID(context.Background(), 1, actor)
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Ball", resp.Items[0].ProductTitle)
	}

	_, err := svc.GetByID(context.Background(), 1, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetByID(context.Background(), 2, buyer)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      string
		actor   domain.Actor
		wantErr error
	}{
		{name: "merchant ships", from: domain.OrderStatusConfirmed, to: "shipped", actor: merchant},
		{name: "merchant cancels pending", from: domain.OrderStatusPending, to: "Cancelled", actor: merchant},
		{name: "buyer cannot update", from: domain.OrderStatusPending, to: "confirmed", actor: buyer, wantErr: ErrForbidden},
		{name: "unknown status", from: domain.OrderStatusPending, to: "lost", actor: merchant, wantErr: ErrInvalidStateTransition},
		{name: "completed is final", from: domain.OrderStatusCompleted, to: "cancelled", actor: merchant, wantErr: ErrInvalidStateTransition},
		{name: "cancelled is final", from: domain.OrderStatusCancelled, to: "pending", actor: merchant, wantErr: ErrInvalidStateTransition},
		{name: "same status", from: domain.OrderStatusShipped, to: "shipped", actor: merchant, wantErr: ErrInvalidStateTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(tt.from)

			resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Actor: tt.actor, Status: tt.to})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.orders[1].Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, repo.orders[1].Status, domain.OrderStatus(resp.Status))
		})
	}
}

func TestGetUserOrders(t *testing.T) {
	svc, _ := newService(domain.OrderStatusPending)

	resp, err := svc.GetUserOrders(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 1)

	resp, err = svc.GetUserOrders(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, resp.Orders)
}

func TestGetUserOrders_ReadsInReadOnlySnapshot(t *testing.T) {
	_, repo := newService(domain.OrderStatusPending)
	tx := &readOnlyTx{}
	svc := NewService(repo, fakeMerchantRepo{}, tx, logger.NewNop())

	resp, err := svc.GetUserOrders(context.Background(), 42)
	require.NoError(t, err)

	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, 1, tx.readOnlyCalls)
}
