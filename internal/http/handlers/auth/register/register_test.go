package register

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
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, username, password string) (string, error) {
	args := m.Called(ctx, email, username, password)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"ivan@example.com","username":"testuser","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivan@example.com", "testuser", "secret123").
					Return("550e8400-e29b-41d4-a716-446655440000", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"uid":"550e8400-e29b-41d4-a716-446655440000"`,
		},
		{
			name:           "некорректный email",
			body:           `{"email":"not-an-email","username":"testuser","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name: "ошибка сервиса регистрации",
			body: `{"email":"ivan@example.com","username":"testuser","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivan@example.com", "testuser", "secret123").
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
