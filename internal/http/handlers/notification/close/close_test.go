package close

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
)

const testTenant = "550e8400-e29b-41d4-a716-446655440000"

// MockService реализует интерфейс close.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Close(ctx context.Context, tenantUID string) error {
	args := m.Called(ctx, tenantUID)
	return args.Error(0)
}

func TestCloseHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		tenantUID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "баннер скрыт",
			tenantUID: testTenant,
			setupMock: func(m *MockService) {
				m.On("Close", mock.Anything, testTenant).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"closed":true`,
		},
		{
			name:      "ошибка хранилища",
			tenantUID: testTenant,
			setupMock: func(m *MockService) {
				m.On("Close", mock.Anything, testTenant).Return(errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not close notification"`,
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

			req := httptest.NewRequest(http.MethodPost, "/api/v1/notification/close", nil)
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
