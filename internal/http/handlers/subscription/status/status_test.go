package status

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
)

const testTenant = "550e8400-e29b-41d4-a716-446655440000"

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Validate(ctx context.Context, tenantUID, currentRoute string, force bool) *gateservice.Result {
	args := m.Called(ctx, tenantUID, currentRoute, force)
	return args.Get(0).(*gateservice.Result)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		tenantUID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "действующая подписка",
			tenantUID: testTenant,
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, testTenant, "/api/v1/subscription/status", false).
					Return(&gateservice.Result{
						State:         gateservice.StateValid,
						Valid:         true,
						DaysRemaining: 14,
					})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"valid"`,
		},
		{
			name:      "истёкшая подписка возвращает маршрут оплаты",
			tenantUID: testTenant,
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, testTenant, "/api/v1/subscription/status", false).
					Return(&gateservice.Result{
						State:      gateservice.StateInvalid,
						RedirectTo: gateservice.PaywallRoute,
					})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"redirect_to":"/subscription/expired"`,
		},
		{
			name:           "арендатор не определён",
			tenantUID:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"tenant identification missing"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/status", nil)
			if tt.tenantUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.TenantUID, tt.tenantUID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
