package update_booking_status

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
	"github.com/m04kA/SMC-Marketplace/internal/service/bookings"
	"github.com/m04kA/SMC-Marketplace/internal/service/bookings/models"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if resp, ok := args.Get(0).(*models.BookingResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, body string, actor domain.Actor) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/status", h.Handle).Methods(http.MethodPatch)

	r := httptest.NewRequest(http.MethodPatch, "/bookings/9/status", strings.NewReader(body))
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_PassesActorToService(t *testing.T) {
	merchant := domain.Actor{UserID: 5, Role: domain.RoleMerchant}
	svc := &serviceMock{}
	svc.On("UpdateStatus", mock.Anything, int64(9), &models.UpdateStatusRequest{Actor: merchant, Status: "confirmed"}).
		Return(&models.BookingResponse{ID: 9, Status: "confirmed"}, nil)

	w := serve(NewHandler(svc, logger.NewNop()), `{"status":"confirmed"}`, merchant)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
	svc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	owner := domain.Actor{UserID: 1, Role: domain.RoleUser}

	for err, want := range map[error]int{
		bookings.ErrBookingNotFound:        http.StatusNotFound,
		bookings.ErrAccessDenied:           http.StatusForbidden,
		bookings.ErrInvalidStateTransition: http.StatusConflict,
		bookings.ErrInternal:               http.StatusInternalServerError,
	} {
		svc := &serviceMock{}
		svc.On("UpdateStatus", mock.Anything, int64(9), mock.Anything).Return(nil, err)

		w := serve(NewHandler(svc, logger.NewNop()), `{"status":"completed"}`, owner)

		assert.Equal(t, want, w.Code, err.Error())
	}
}

func TestHandle_RejectsUnknownStatus(t *testing.T) {
	svc := &serviceMock{}

	w := serve(NewHandler(svc, logger.NewNop()), `{"status":"archived"}`, domain.Actor{UserID: 1, Role: domain.RoleAdmin})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
