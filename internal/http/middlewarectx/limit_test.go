package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkozyrev/food-ordering/internal/http/middlewarectx"
)

func TestPhoneRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewPhoneLimiter()
	var gotBody string
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewarectx.PhoneRateLimitMiddleware(limiter, newNoopLogger())(nextHandler)

	body := `{"phone":"+79001234567"}`

	req := httptest.NewRequest(http.MethodPost, "/auth/sms/send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	// Тело запроса доступно следующему обработчику.
	assert.Equal(t, body, gotBody)

	// Повторный запрос для того же номера сразу отклоняется.
	req = httptest.NewRequest(http.MethodPost, "/auth/sms/send", strings.NewReader(body))
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Другой номер не затронут.
	req = httptest.NewRequest(http.MethodPost, "/auth/sms/send", strings.NewReader(`{"phone":"+79009999999"}`))
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
