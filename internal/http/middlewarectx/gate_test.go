package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
)

const testTenant = "550e8400-e29b-41d4-a716-446655440000"

type GateMock struct{ mock.Mock }

func (m *GateMock) Validate(ctx context.Context, tenantUID, currentRoute string, force bool) *gateservice.Result {
	args := m.Called(ctx, tenantUID, currentRoute, force)
	return args.Get(0).(*gateservice.Result)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubscriptionGateMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		tenantUID      string
		accept         string
		setupMock      func(m *GateMock)
		wantStatus     int
		wantNextCalled bool
		wantLocation   string
	}{
		{
			name:      "валидная подписка пропускает запрос",
			tenantUID: testTenant,
			setupMock: func(m *GateMock) {
				m.On("Validate", mock.Anything, testTenant, "/api/v1/clients", false).
					Return(&gateservice.Result{State: gateservice.StateValid, Valid: true}).Once()
			},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:      "истёкшая подписка редиректит браузер на страницу оплаты",
			tenantUID: testTenant,
			accept:    "text/html",
			setupMock: func(m *GateMock) {
				m.On("Validate", mock.Anything, testTenant, "/api/v1/clients", false).
					Return(&gateservice.Result{
						State:      gateservice.StateInvalid,
						RedirectTo: gateservice.PaywallRoute,
					}).Once()
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: gateservice.PaywallRoute,
		},
		{
			name:      "истёкшая подписка для API-клиента — 403 без редиректа",
			tenantUID: testTenant,
			setupMock: func(m *GateMock) {
				m.On("Validate", mock.Anything, testTenant, "/api/v1/clients", false).
					Return(&gateservice.Result{
						State:      gateservice.StateInvalid,
						RedirectTo: gateservice.PaywallRoute,
					}).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "отсутствие идентификатора арендатора",
			tenantUID:  "",
			setupMock:  func(_ *GateMock) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := new(GateMock)
			tt.setupMock(gate)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := SubscriptionGateMiddleware(newNoopLogger(), gate)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.tenantUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), TenantUID, tt.tenantUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			gate.AssertExpectations(t)
		})
	}
}
