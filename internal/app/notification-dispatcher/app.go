package notificationdispatcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/notification-dispatcher/internal/cache"
	"github.com/magabrotheeeer/notification-dispatcher/internal/catalog"
	"github.com/magabrotheeeer/notification-dispatcher/internal/config"
	"github.com/magabrotheeeer/notification-dispatcher/internal/migrations"
	"github.com/magabrotheeeer/notification-dispatcher/internal/rabbitmq"
	"github.com/magabrotheeeer/notification-dispatcher/internal/ratelimit"
	notificationservice "github.com/magabrotheeeer/notification-dispatcher/internal/services/notification"
	"github.com/magabrotheeeer/notification-dispatcher/internal/storage/repository"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	service    *notificationservice.Service
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
	cfg        *config.Config
}

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

	typeCatalog := catalog.New(db, cacheRedis, logger, cfg.CatalogTTL)
	service := notificationservice.New(db, typeCatalog, logger)
	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Rules)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	app := &App{
		server:  srv,
		logger:  logger,
		db:      db,
		cache:   cacheRedis,
		service: service,
		cfg:     cfg,
	}

	if cfg.RabbitMQ.Enabled {
		if err := app.startConsumer(ctx); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// startConsumer подключает входящий поток уведомлений из RabbitMQ.
func (a *App) startConsumer(ctx context.Context) error {
	conn, err := rabbitmq.Connect(a.cfg.AddressRabbitMQ, a.cfg.ConnectRetries, a.cfg.ConnectRetryDelay)
	if err != nil {
		return err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err = rabbitmq.ConsumeNotifications(ctx, ch, a.service, a.logger); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	a.rabbitConn = conn
	a.rabbitCh = ch
	a.logger.Info("inbound notification consumer started",
		slog.String("queue", rabbitmq.InboundQueue))
	return nil
}

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
		if a.rabbitCh != nil {
			_ = a.rabbitCh.Close()
		}
		if a.rabbitConn != nil {
			_ = a.rabbitConn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
