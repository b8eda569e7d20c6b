package update

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkozyrev/food-ordering/internal/http/middlewarectx"
	"github.com/mkozyrev/food-ordering/internal/models"
	"github.com/mkozyrev/food-ordering/internal/storage/repository"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateProfile(ctx context.Context, userUID string, upd models.DummyProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userUID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestUpdateProfileHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		userUID        string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная правка профиля",
			userUID: "uid-1",
			body:    `{"name":"Мария Иванова","addresses":["пр. Мира, 5"]}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, "uid-1", models.DummyProfileUpdate{
					Name:      "Мария Иванова",
					Addresses: []string{"пр. Мира, 5"},
				}).Return(&models.User{UID: "uid-1", Name: "Мария Иванова"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Мария Иванова"`,
		},
		{
			name:           "нет идентификатора в контексте",
			userUID:        "",
			body:           `{"name":"x"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "некорректная почта",
			userUID:        "uid-1",
			body:           `{"email":"not-an-email"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email is not a valid`,
		},
		{
			name:    "пользователь не найден",
			userUID: "uid-gone",
			body:    `{"name":"x"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, "uid-gone", mock.Anything).
					Return(nil, repository.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
