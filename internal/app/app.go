// Package app assembles the infrastructure shared by the API server, the worker and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/core/services"
	"github.com/SscSPs/erp_lite/internal/jobs"
	"github.com/SscSPs/erp_lite/internal/platform/cache"
	"github.com/SscSPs/erp_lite/internal/platform/config"
	"github.com/SscSPs/erp_lite/internal/platform/events"
	"github.com/SscSPs/erp_lite/internal/platform/lock"
	"github.com/SscSPs/erp_lite/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_lite/pkg/database"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// NewLogger returns a JSON logger writing to stdout at the configured level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// App holds the long-lived dependencies of a process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client // nil when REDIS_ADDR is unset
	Services *portssvc.ServiceContainer

	kafka *events.KafkaPublisher
}

// New connects to PostgreSQL and, when configured, Redis and Kafka, then builds the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{Ping: cfg.EnableDBCheck})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, Pool: pool}

	infra := services.Infrastructure{SweepRecorder: jobs.NewMetrics(nil)}
	publishers := events.Multi{}

	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		dashboardCache := cache.NewVersionedCache(client, cache.DefaultNamespace)
		infra.Cache = dashboardCache
		infra.Locker = lock.NewRedisLocker(client)
		publishers = append(publishers, events.CacheInvalidator{Cache: dashboardCache})
	}

	if len(cfg.KafkaBrokers) > 0 {
		a.kafka = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaDocumentsTopic, logger)
		publishers = append(publishers, a.kafka)
	}

	if len(publishers) > 0 {
		infra.Publisher = publishers
	} else {
		infra.Publisher = events.Noop{}
	}

	a.Services, err = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), infra)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return a, nil
}

// AsynqRedisOpts returns the queue connection settings, or an error when Redis is not configured.
func (a *App) AsynqRedisOpts() (asynq.RedisClientOpt, error) {
	if a.Config.RedisAddr == "" {
		return asynq.RedisClientOpt{}, errors.New("REDIS_ADDR must be set to use the job queue")
	}
	return asynq.RedisClientOpt{Addr: a.Config.RedisAddr, Password: a.Config.RedisPassword, DB: a.Config.RedisDB}, nil
}

// Close releases every connection held by the app.
func (a *App) Close() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.Logger.Error("Failed to close Kafka writer", slog.String("error", err.Error()))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("Failed to close Redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.Pool)
}
