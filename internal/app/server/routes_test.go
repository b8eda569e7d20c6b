package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/mkozyrev/food-ordering/internal/config"
	authservice "github.com/mkozyrev/food-ordering/internal/services/auth"
	cartservice "github.com/mkozyrev/food-ordering/internal/services/cart"
	catalogservice "github.com/mkozyrev/food-ordering/internal/services/catalog"
	orderservice "github.com/mkozyrev/food-ordering/internal/services/order"
	restaurantservice "github.com/mkozyrev/food-ordering/internal/services/restaurant"
	"github.com/mkozyrev/food-ordering/internal/sms"
)

func newTestRouter() chi.Router {
	logger := slog.New(slog.DiscardHandler)
	router := chi.NewRouter()
	RegisterRoutes(router, logger, &config.Config{},
		authservice.NewAuthService(nil, sms.NewCodeStore(time.Minute), nil, nil, "admin", "", logger),
		catalogservice.NewCatalogService(nil, nil, logger),
		cartservice.NewCartService(nil, logger),
		orderservice.NewOrderService(nil, nil, nil, logger),
		restaurantservice.NewRestaurantService(nil, nil, logger),
	)
	return router
}

func TestRootHealthAlias(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRootOrderAlias(t *testing.T) {
	router := newTestRouter()

	// Маршрут существует: пустое тело не проходит валидацию, но не 404.
	for _, path := range []string{"/order", "/api/v1/order"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
	}
}
