package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/cache"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/config"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/health"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/metrics"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/password"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/migrations"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/aitool"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/auth"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/events"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/payment"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/storage/memory"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

// repository объединяет всё, что сервисы ждут от хранилища.
type repository interface {
	auth.UserRepository
	payment.UserRepository
	aitool.ToolRepository
}

// App — HTTP-сервер каталога со всеми зависимостями.
type App struct {
	server  *http.Server
	router  chi.Router
	logger  *slog.Logger
	closers []func() error
}

// New создаёт приложение, метрики регистрируются в глобальном реестре Prometheus.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newApp(ctx, cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	const op = "app.catalog.New"

	a := &App{logger: logger}

	repo, checker, err := a.initStorage(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var c aitool.Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, redisCache.Close)
		c = redisCache
		logger.Info("redis cache enabled", slog.String("address", cfg.AddressRedis))
	} else {
		logger.Info("redis address is empty, caching disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		ch, err := a.initRabbitMQ(ctx, cfg.RabbitMQ)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = events.NewAMQPPublisher(ch, cfg.Exchange)
		logger.Info("activity events enabled", slog.String("exchange", cfg.Exchange))
	} else {
		logger.Info("rabbitmq url is empty, activity events disabled")
	}

	m := metrics.New(reg)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	hasher := password.NewHasher(bcrypt.DefaultCost)

	services := Services{
		Auth:    auth.NewAuthService(repo, jwtMaker, hasher, c, cfg.UserTTL, logger),
		Tools:   aitool.NewService(repo, c, publisher, m, cfg.ToolListTTL, logger),
		Payment: payment.New(repo, c, publisher, m, cfg.SubscriptionThreshold, logger),
		Health:  checker,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, services, m, gatherer)

	a.router = router
	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) initStorage(cfg *config.Config) (repository, health.Checker, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		a.logger.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil, nil
	}

	db, err := postgres.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, db.Close)
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

func (a *App) initRabbitMQ(ctx context.Context, cfg config.RabbitMQ) (*amqp.Channel, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.ActivityQueues(cfg.Queue))
	if err != nil {
		return nil, err
	}
	// Канал закрывается раньше соединения.
	a.closers = append(a.closers, ch.Close)
	return ch, nil
}

// Handler возвращает корневой обработчик со всеми маршрутами.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в порядке, обратном созданию.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", sl.Err(err))
		}
	}
	a.closers = nil
}
