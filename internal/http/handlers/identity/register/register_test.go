package register

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RegisterOrResume(ctx context.Context, email string) (entitlement.Status, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entitlement.Status), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler(t *testing.T) {
	trial := entitlement.Status{
		Entitlement: models.Entitlement{Email: "alice@example.com", CanGenerate: true},
		Origin:      models.OriginServer,
		State:       models.StateTrialAvailable,
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"alice@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterOrResume", mock.Anything, "alice@example.com").Return(trial, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"trial_available"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустой email",
			body:           `{"email":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email is a required field`,
		},
		{
			name: "email без @",
			body: `{"email":"not-an-email"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterOrResume", mock.Anything, "not-an-email").
					Return(entitlement.Status{State: models.StateNew}, entitlement.ErrInvalidEmail).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"invalid email"`,
		},
		{
			name: "API недоступен",
			body: `{"email":"alice@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterOrResume", mock.Anything, "alice@example.com").
					Return(entitlement.Status{}, errors.New("connection refused")).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"error":"could not register email"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/identity", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			New(newNoopLogger(), mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
