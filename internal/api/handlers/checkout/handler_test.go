package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/api/handlers"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	checkoutUC "github.com/m04kA/SMC-Marketplace/internal/usecase/checkout"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/ptr"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *checkoutUC.Request) (*checkoutUC.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*checkoutUC.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func serve(h *Handler, withUser bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	if withUser {
		r = r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: 42, Role: domain.RoleUser}))
	}
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_Created(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, &checkoutUC.Request{UserID: 42}).Return(&checkoutUC.Response{
		Orders: []*domain.Order{
			{
				ID: 1, MerchantID: 10, Status: domain.OrderStatusPending,
				Subtotal: dec("115.00"), Total: dec("115.00"),
				Items: []*domain.OrderItem{{ProductID: 1, ProductTitle: "мяч", UnitPrice: dec("57.50"), Quantity: 2, LineTotal: dec("115.00")}},
			},
			{
				ID: 2, MerchantID: 10, StoreID: ptr.Ptr(int64(3)), Status: domain.OrderStatusPending,
				Subtotal: dec("7.00"), Total: dec("7.00"),
				Items: []*domain.OrderItem{{ProductID: 2, ProductTitle: "сетка", UnitPrice: dec("7.00"), Quantity: 1, LineTotal: dec("7.00")}},
			},
		},
		OrderCount: 2,
		ItemCount:  3,
		GrandTotal: dec("122.00"),
		NewCartID:  99,
	}, nil)

	w := serve(NewHandler(uc, logger.NewNop()), true)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.OrderCount)
	assert.Equal(t, 3, resp.ItemCount)
	assert.True(t, dec("122.00").Equal(resp.GrandTotal))
	assert.Equal(t, int64(99), resp.NewCartID)
	require.Len(t, resp.Orders, 2)
	assert.Nil(t, resp.Orders[0].StoreID)
	assert.Equal(t, int64(3), *resp.Orders[1].StoreID)
	assert.Equal(t, "мяч", resp.Orders[0].Items[0].ProductTitle)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "empty cart", err: checkoutUC.ErrEmptyCart, wantStatus: http.StatusBadRequest, wantMsg: msgEmptyCart},
		{name: "product gone", err: checkoutUC.ErrProductNotFound, wantStatus: http.StatusNotFound},
		{name: "product inactive", err: checkoutUC.ErrProductUnavailable, wantStatus: http.StatusUnprocessableEntity},
		{name: "out of stock", err: checkoutUC.ErrOutOfStock, wantStatus: http.StatusConflict},
		{
			name:       "insufficient stock",
			err:        &domain.InsufficientStockError{ProductID: 4, Requested: 3, Available: 1},
			wantStatus: http.StatusConflict,
			wantMsg:    "недостаточно товара 4: запрошено 3, в наличии 1",
		},
		{name: "lock timeout", err: fmt.Errorf("%w: 55P03", txmanager.ErrTransient), wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: checkoutUC.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(uc, logger.NewNop()), true)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				var body handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &useCaseMock{}

	assert.Equal(t, http.StatusUnauthorized, serve(NewHandler(uc, logger.NewNop()), false).Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
