package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mkozyrev/food-ordering/internal/config"
	"github.com/mkozyrev/food-ordering/internal/http/handlers/auth/adminlogin"
	"github.com/mkozyrev/food-ordering/internal/http/handlers/auth/smssend"
	"github.com/mkozyrev/food-ordering/internal/http/handlers/auth/smsverify"
	cartadd "github.com/mkozyrev/food-ordering/internal/http/handlers/cart/add"
	cartclear "github.com/mkozyrev/food-ordering/internal/http/handlers/cart/clear"
	cartget "github.com/mkozyrev/food-ordering/internal/http/handlers/cart/get"
	cartupdate "github.com/mkozyrev/food-ordering/internal/http/handlers/cart/update"
	categorycreate "github.com/mkozyrev/food-ordering/internal/http/handlers/category/create"
	categorylist "github.com/mkozyrev/food-ordering/internal/http/handlers/category/list"
	categoryremove "github.com/mkozyrev/food-ordering/internal/http/handlers/category/remove"
	categoryreorder "github.com/mkozyrev/food-ordering/internal/http/handlers/category/reorder"
	categoryupdate "github.com/mkozyrev/food-ordering/internal/http/handlers/category/update"
	dishcreate "github.com/mkozyrev/food-ordering/internal/http/handlers/dish/create"
	dishlist "github.com/mkozyrev/food-ordering/internal/http/handlers/dish/list"
	dishremove "github.com/mkozyrev/food-ordering/internal/http/handlers/dish/remove"
	dishtoggle "github.com/mkozyrev/food-ordering/internal/http/handlers/dish/toggle"
	dishupdate "github.com/mkozyrev/food-ordering/internal/http/handlers/dish/update"
	"github.com/mkozyrev/food-ordering/internal/http/handlers/health"
	ordercancel "github.com/mkozyrev/food-ordering/internal/http/handlers/order/cancel"
	ordercreate "github.com/mkozyrev/food-ordering/internal/http/handlers/order/create"
	orderlist "github.com/mkozyrev/food-ordering/internal/http/handlers/order/list"
	orderupdatestatus "github.com/mkozyrev/food-ordering/internal/http/handlers/order/updatestatus"
	"github.com/mkozyrev/food-ordering/internal/http/handlers/payment/webhook"
	profileget "github.com/mkozyrev/food-ordering/internal/http/handlers/profile/get"
	profileupdate "github.com/mkozyrev/food-ordering/internal/http/handlers/profile/update"
	restaurantget "github.com/mkozyrev/food-ordering/internal/http/handlers/restaurant/get"
	restaurantupdate "github.com/mkozyrev/food-ordering/internal/http/handlers/restaurant/update"
	"github.com/mkozyrev/food-ordering/internal/http/middlewarectx"
	authservice "github.com/mkozyrev/food-ordering/internal/services/auth"
	cartservice "github.com/mkozyrev/food-ordering/internal/services/cart"
	catalogservice "github.com/mkozyrev/food-ordering/internal/services/catalog"
	orderservice "github.com/mkozyrev/food-ordering/internal/services/order"
	restaurantservice "github.com/mkozyrev/food-ordering/internal/services/restaurant"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	cartService *cartservice.CartService,
	orderService *orderservice.OrderService,
	restaurantService *restaurantservice.RestaurantService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	phoneLimiter := middlewarectx.NewPhoneLimiter()

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/menu", dishlist.New(logger, catalogService).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, catalogService).ServeHTTP)
		r.Get("/restaurant", restaurantget.New(logger, restaurantService).ServeHTTP)
		r.Post("/order", ordercreate.New(logger, orderService).ServeHTTP)

		r.Post("/auth/admin/login", adminlogin.New(logger, authService).ServeHTTP)
		r.With(middlewarectx.PhoneRateLimitMiddleware(phoneLimiter, logger)).
			Post("/auth/sms/send", smssend.New(logger, authService).ServeHTTP)
		r.Post("/auth/sms/verify", smsverify.New(logger, authService).ServeHTTP)

		// Корзина активной сессии
		r.Route("/cart/{owner}", func(r chi.Router) {
			r.Get("/", cartget.New(logger, cartService).ServeHTTP)
			r.Delete("/", cartclear.New(logger, cartService).ServeHTTP)
			r.Post("/items", cartadd.New(logger, cartService).ServeHTTP)
			r.Patch("/items/{dishId}", cartupdate.New(logger, cartService).ServeHTTP)
		})

		// Профиль текущего пользователя, доступен по JWT любой роли
		r.Route("/profile", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))

			r.Get("/", profileget.New(logger, authService).ServeHTTP)
			r.Put("/", profileupdate.New(logger, authService).ServeHTTP)
		})

		// Группа администратора: JWT плюс проверка роли
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/dishes", dishcreate.New(logger, catalogService).ServeHTTP)
			r.Put("/dishes/{id}", dishupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/dishes/{id}", dishremove.New(logger, catalogService).ServeHTTP)
			r.Patch("/dishes/{id}/toggle", dishtoggle.New(logger, catalogService).ServeHTTP)

			r.Post("/categories", categorycreate.New(logger, catalogService).ServeHTTP)
			r.Put("/categories/{id}", categoryupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/categories/{id}", categoryremove.New(logger, catalogService).ServeHTTP)
			r.Post("/categories/reorder", categoryreorder.New(logger, catalogService).ServeHTTP)

			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
			r.Patch("/orders/{id}/status", orderupdatestatus.New(logger, orderService).ServeHTTP)
			r.Post("/orders/{id}/cancel", ordercancel.New(logger, orderService).ServeHTTP)

			r.Put("/restaurant", restaurantupdate.New(logger, restaurantService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется в обработчике)
		r.Post("/payments/webhook", webhook.New(logger, orderService, cfg.WebhookSecret).ServeHTTP)
	})

	// Корневые алиасы: проверка живости и упрощённое оформление заказа
	r.Get("/", health.New(logger).ServeHTTP)
	r.Post("/order", ordercreate.New(logger, orderService).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
