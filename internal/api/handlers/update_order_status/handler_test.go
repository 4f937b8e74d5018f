package update_order_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	"github.com/m04kA/SMC-Marketplace/internal/service/orders"
	"github.com/m04kA/SMC-Marketplace/internal/service/orders/models"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) UpdateStatus(ctx context.Context, orderID int64, req *models.UpdateStatusRequest) (*models.OrderResponse, error) {
	args := m.Called(ctx, orderID, req)
	if resp, ok := args.Get(0).(*models.OrderResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

var merchant = domain.Actor{UserID: 5, Role: domain.RoleMerchant}

func serve(h *Handler, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/orders/{orderId}/status", h.Handle).Methods(http.MethodPatch)

	r := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	r = r.WithContext(middleware.WithActor(r.Context(), merchant))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_Shipped(t *testing.T) {
	svc := &serviceMock{}
	svc.On("UpdateStatus", mock.Anything, int64(12), &models.UpdateStatusRequest{Actor: merchant, Status: "shipped"}).
		Return(&models.OrderResponse{ID: 12, Status: "shipped"}, nil)

	w := serve(NewHandler(svc, logger.NewNop()), "/orders/12/status", `{"status":"shipped"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	for err, want := range map[error]int{
		orders.ErrOrderNotFound:          http.StatusNotFound,
		orders.ErrForbidden:              http.StatusForbidden,
		orders.ErrInvalidStateTransition: http.StatusConflict,
		orders.ErrInternal:               http.StatusInternalServerError,
	} {
		svc := &serviceMock{}
		svc.On("UpdateStatus", mock.Anything, int64(12), mock.Anything).Return(nil, err)

		assert.Equal(t, want, serve(NewHandler(svc, logger.NewNop()), "/orders/12/status", `{"status":"pending"}`).Code, err.Error())
	}
}

func TestHandle_BadRequests(t *testing.T) {
	svc := &serviceMock{}
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, serve(h, "/orders/abc/status", `{"status":"shipped"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/orders/12/status", `{}`).Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
