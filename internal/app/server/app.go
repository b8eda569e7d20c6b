// Package server собирает основное приложение: хранилище, кэш, очередь,
// платежный провайдер, SMS-шлюз, сервисы и HTTP-сервер.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/mkozyrev/food-ordering/internal/cache"
	"github.com/mkozyrev/food-ordering/internal/config"
	libjwt "github.com/mkozyrev/food-ordering/internal/lib/jwt"
	librabbitmq "github.com/mkozyrev/food-ordering/internal/lib/rabbitmq"
	"github.com/mkozyrev/food-ordering/internal/migrations"
	"github.com/mkozyrev/food-ordering/internal/paymentprovider"
	authservice "github.com/mkozyrev/food-ordering/internal/services/auth"
	cartservice "github.com/mkozyrev/food-ordering/internal/services/cart"
	catalogservice "github.com/mkozyrev/food-ordering/internal/services/catalog"
	orderservice "github.com/mkozyrev/food-ordering/internal/services/order"
	restaurantservice "github.com/mkozyrev/food-ordering/internal/services/restaurant"
	"github.com/mkozyrev/food-ordering/internal/sms"
	"github.com/mkozyrev/food-ordering/internal/storage/repository"
)

// App основное приложение.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitCh *amqp.Channel
	rabbit   *amqp.Connection
}

// New инициализирует зависимости и возвращает готовое приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := librabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := librabbitmq.SetupChannel(rabbitConn, cfg.OrderExchange, cfg.OrderQueue)
	if err != nil {
		rabbitConn.Close()
		return nil, err
	}
	publisher := librabbitmq.NewPublisher(rabbitCh, cfg.OrderExchange)

	providerClient := paymentprovider.NewClient(cfg.ShopID, cfg.SecretKey, cfg.PaymentAPIURL, cfg.ReturnURL)

	var gateway sms.Gateway
	if cfg.SMSDemoMode {
		gateway = sms.NewDemoGateway(logger)
	} else {
		gateway = sms.NewHTTPGateway(cfg.SMSGateway)
	}
	codes := sms.NewCodeStore(cfg.CodeTTL)
	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, codes, gateway, jwtMaker,
		cfg.AdminUsername, cfg.AdminPasswordHash, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	cartService := cartservice.NewCartService(cacheRedis, logger)
	orderService := orderservice.NewOrderService(db, providerClient, publisher, logger)
	restaurantService := restaurantservice.NewRestaurantService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg,
		authService, catalogService, cartService, orderService, restaurantService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitCh: rabbitCh,
		rabbit:   rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.rabbitCh.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbit channel", slog.Any("err", closeErr))
		}
		if closeErr := a.rabbit.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbit connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
