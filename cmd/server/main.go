// @title        Messaging Service API
// @version      1.0
// @description  Basic-auth protected service for sending, listing and acknowledging messages.
// @BasePath     /
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/api"
	"github.com/msgbox/messaging-service/internal/api/handler"
	"github.com/msgbox/messaging-service/internal/core/ports"
	"github.com/msgbox/messaging-service/internal/core/service"
	"github.com/msgbox/messaging-service/internal/infrastructure/config"
	"github.com/msgbox/messaging-service/internal/infrastructure/db/postgres"
	"github.com/msgbox/messaging-service/internal/infrastructure/db/redis"
	"github.com/msgbox/messaging-service/internal/infrastructure/queue"
	"github.com/msgbox/messaging-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "messaging-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	scheme, err := service.ParsePasswordScheme(cfg.PasswordScheme)
	if err != nil {
		return err
	}

	// --- Database ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		SlowQuery:       cfg.Database.QueryTimeout / 2,
	}, logger.Component("postgres"))
	if err != nil {
		return err
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn().Err(err).Msg("closing database pool")
		}
	}()
	log.Info().Msg("connected to postgres")

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	checks := map[string]handler.PingFunc{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// --- Redis (optional) ---
	var idempotency ports.IdempotencyStore
	if cfg.IdempotencyEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks["redis"] = pingRedis(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		log.Info().Msg("REDIS_ADDR not set, send idempotency disabled")
	}

	// --- Repositories ---
	users := postgres.NewUserRepository(db, cfg.Database.QueryTimeout)
	messages := postgres.NewMessageRepository(db, cfg.Database.QueryTimeout)
	events := postgres.NewEventRepository(db, cfg.Database.QueryTimeout)

	// --- Audit pipeline ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, 0,
		service.NewEventService(events, logger.Component("audit")),
		logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	// --- Services + HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:    service.NewAuthService(users, scheme, logger.Component("auth")),
		MessageService: service.NewMessageService(users, messages, dispatcher, idempotency, logger.Component("messages")),
		HealthChecks:   checks,
		Logger:         logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func pingRedis(rdb *goredis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
