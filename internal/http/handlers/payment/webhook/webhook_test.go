package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
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

func (m *MockService) ProcessPaymentEvent(ctx context.Context, event, paymentID, paymentStatus string) error {
	args := m.Called(ctx, event, paymentID, paymentStatus)
	return args.Error(0)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	const secret = "test-secret"

	succeededBody := []byte(`{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded"}}`)

	tests := []struct {
		name           string
		body           []byte
		signature      string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:      "успешная обработка payment.succeeded",
			body:      succeededBody,
			signature: sign(secret, succeededBody),
			setupMock: func(m *MockService) {
				m.On("ProcessPaymentEvent", mock.Anything, "payment.succeeded", "pay-1", "succeeded").
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "отсутствует подпись",
			body:           succeededBody,
			signature:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неверная подпись",
			body:           succeededBody,
			signature:      sign("wrong-secret", succeededBody),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неизвестное событие игнорируется",
			body:           []byte(`{"event":"refund.succeeded","object":{"id":"pay-1"}}`),
			signature:      sign(secret, []byte(`{"event":"refund.succeeded","object":{"id":"pay-1"}}`)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, secret)

			req := httptest.NewRequest(http.MethodPost, "/payment/webhook", bytes.NewReader(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
