package create_subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	createSubscription "github.com/m04kA/SMC-Marketplace/internal/usecase/create_subscription"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/ptr"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *createSubscription.Request) (*createSubscription.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createSubscription.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/fields/{fieldId}/subscriptions", h.Handle).Methods(http.MethodPost)

	r := httptest.NewRequest(http.MethodPost, "/fields/3/subscriptions", strings.NewReader(body))
	r = r.WithContext(middleware.WithActor(r.Context(), domain.Actor{UserID: 42, Role: domain.RoleUser}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_RenewalResponse(t *testing.T) {
	price := decimal.RequireFromString("50.00")
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, &createSubscription.Request{FieldID: 3, UserID: 42, Type: "monthly"}).
		Return(&createSubscription.Response{
			ID:        11,
			FieldID:   3,
			UserID:    42,
			Type:      "monthly",
			PlanID:    ptr.Ptr(int64(2)),
			Price:     &price,
			Currency:  "EUR",
			StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			Status:    "active",
			Renewal:   true,
		}, nil)

	w := serve(NewHandler(uc, logger.NewNop()), `{"type":"monthly"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-02-01", resp.StartDate)
	assert.Equal(t, "2025-02-28", resp.EndDate)
	assert.True(t, resp.Renewal)
	assert.True(t, price.Equal(*resp.Price))
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	for err, want := range map[error]int{
		createSubscription.ErrInvalidType:   http.StatusBadRequest,
		createSubscription.ErrInvalidInput:  http.StatusBadRequest,
		createSubscription.ErrFieldNotFound: http.StatusNotFound,
		createSubscription.ErrNotAvailable:  http.StatusUnprocessableEntity,
		createSubscription.ErrPeriodOverlap: http.StatusConflict,
		createSubscription.ErrInternal:      http.StatusInternalServerError,
	} {
		uc := &useCaseMock{}
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, err)

		w := serve(NewHandler(uc, logger.NewNop()), `{"type":"weekly","startDate":"2025-01-01"}`)

		assert.Equal(t, want, w.Code, err.Error())
	}
}

func TestHandle_MissingType(t *testing.T) {
	uc := &useCaseMock{}

	w := serve(NewHandler(uc, logger.NewNop()), `{"startDate":"2025-01-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
