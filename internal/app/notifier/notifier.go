// Package notifier собирает приложение, которое читает события активности
// каталога из RabbitMQ и пишет по ним журнал.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/config"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	notifierservice "github.com/magabrotheeeer/ai-tools-catalog/internal/services/notifier"
)

const consumerWorkers = 4

// App — потребитель очереди активности.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	queue           string
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

// New подключается к RabbitMQ и объявляет обменник и очередь.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.notifier.New"
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is required"))
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.ActivityQueues(cfg.Queue))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		conn:            conn,
		ch:              ch,
		queue:           cfg.Queue,
		notifierService: notifierservice.NewService(logger),
		logger:          logger,
	}, nil
}

// Run потребляет очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, consumerWorkers, a.notifierService.HandleActivity, a.logger)
	if err != nil {
		a.logger.Error("failed to start activity consumer", slog.String("queue", a.queue), sl.Err(err))
		a.close()
		return err
	}
	a.logger.Info("activity consumer started", slog.String("queue", a.queue))

	<-ctx.Done()
	a.logger.Info("activity notifier shutting down gracefully", slog.Any("handled", a.notifierService.Counts()))
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
