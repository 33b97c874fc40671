package save

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSaveHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "успешное сохранение", expectedStatus: http.StatusOK, expectedBody: `"saved":true`},
		{name: "ошибка API", err: errors.New("bad gateway"), expectedStatus: http.StatusBadGateway, expectedBody: `"error":"could not save data"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Save", mock.Anything).Return(tt.err).Once()

			w := httptest.NewRecorder()
			New(newNoopLogger(), mockService).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/data/save", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
