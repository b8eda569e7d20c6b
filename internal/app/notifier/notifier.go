// Package notifier собирает воркер уведомлений: подключение к очереди
// заказов и отправку писем администратору.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/mkozyrev/food-ordering/internal/config"
	librabbitmq "github.com/mkozyrev/food-ordering/internal/lib/rabbitmq"
	"github.com/mkozyrev/food-ordering/internal/lib/smtp"
	"github.com/mkozyrev/food-ordering/internal/rabbitmq"
	notifyservice "github.com/mkozyrev/food-ordering/internal/services/notify"
)

// App воркер уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	notifyService *notifyservice.NotifyService
	queue         string
	logger        *slog.Logger
}

// New инициализирует зависимости и возвращает готовый воркер.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := librabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := librabbitmq.SetupChannel(conn, cfg.OrderExchange, cfg.OrderQueue)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	notifyService := notifyservice.NewNotifyService(transport, cfg.AdminEmail, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		notifyService: notifyService,
		queue:         cfg.OrderQueue,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, a.notifyService.SendNewOrderNotification)
	if err != nil {
		a.logger.Error("failed to start order queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
