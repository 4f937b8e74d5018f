package remove_cart_item

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart"
	"github.com/m04kA/SMC-Marketplace/internal/service/cart/models"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) RemoveItem(ctx context.Context, userID, productID int64) (*models.CartResponse, error) {
	args := m.Called(ctx, userID, productID)
	if resp, ok := args.Get(0).(*models.CartResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/cart/items/{productId}", h.Handle).Methods(http.MethodDelete)

	r := httptest.NewRequest(http.MethodDelete, target, nil)
	r = r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: 42, Role: domain.RoleUser}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle(t *testing.T) {
	svc := &serviceMock{}
	svc.On("RemoveItem", mock.Anything, int64(42), int64(3)).Return(&models.CartResponse{ID: 8, Items: []models.CartItemResponse{}}, nil)
	svc.On("RemoveItem", mock.Anything, int64(42), int64(4)).Return(nil, cart.ErrItemNotFound)
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusOK, serve(h, "/cart/items/3").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "/cart/items/4").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/cart/items/four").Code)
	svc.AssertExpectations(t)
}
