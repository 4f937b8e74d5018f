package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-Marketplace/internal/domain"
)

func actorEcho(t *testing.T, got *domain.Actor) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantActor  domain.Actor
	}{
		{name: "user by default", userID: "42", wantStatus: http.StatusNoContent, wantActor: domain.Actor{UserID: 42, Role: domain.RoleUser}},
		{name: "merchant", userID: "7", role: "merchant", wantStatus: http.StatusNoContent, wantActor: domain.Actor{UserID: 7, Role: domain.RoleMerchant}},
		{name: "admin", userID: "1", role: "admin", wantStatus: http.StatusNoContent, wantActor: domain.Actor{UserID: 1, Role: domain.RoleAdmin}},
		{name: "missing id", wantStatus: http.StatusUnauthorized},
		{name: "not a number", userID: "abc", wantStatus: http.StatusUnauthorized},
		{name: "zero id", userID: "0", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "42", role: "root", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Actor
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			Auth(actorEcho(t, &got)).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.wantActor, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(RequireRole(domain.RoleMerchant, domain.RoleAdmin)(ok))

	for role, want := range map[string]int{
		"":         http.StatusForbidden,
		"user":     http.StatusForbidden,
		"merchant": http.StatusNoContent,
		"admin":    http.StatusNoContent,
	} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(HeaderUserID, "5")
		if role != "" {
			r.Header.Set(HeaderUserRole, role)
		}
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, want, w.Code, "role %q", role)
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.NotFoundHandler())
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "req-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
}

type httpObservation struct {
	method string
	route  string
	status int
}

type recorderStub struct {
	mu   sync.Mutex
	seen []httpObservation
}

func (r *recorderStub) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, httpObservation{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &recorderStub{}

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(rec))
	router.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/123", nil))

	require.Len(t, rec.seen, 1)
	assert.Equal(t, httpObservation{method: http.MethodGet, route: "/bookings/{bookingId}", status: http.StatusNotFound}, rec.seen[0])
}
