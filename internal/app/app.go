// Package app wires configuration, storage, caches and transports together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/mmynk/invoicer/internal/cache"
	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/postgres"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
)

type App struct {
	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	redis   *redis.Client
	views   cache.ViewCache
	metrics *metrics.Metrics
	handler http.Handler
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := OpenStore(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	a.store = store
	logger.Info("Storage initialized", "driver", cfg.DB.Driver)

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.redis = rdb
		a.views = cache.NewRedisViewCache(rdb, cfg.Redis.CacheTTL.Duration())
		logger.Info("View cache on Redis", "addr", cfg.Redis.Addr)
	} else {
		a.views = cache.NewMemoryViewCache(cfg.Redis.CacheTTL.Duration())
		logger.Info("View cache in memory")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	a.handler = a.routes()
	return a, nil
}

// Handler is the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Store exposes the storage backend, for tools that share the server's wiring.
func (a *App) Store() storage.Store {
	return a.store
}

// Close releases the Redis client and the store, reporting every failure.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// OpenStore opens the configured storage backend and applies its migrations.
func OpenStore(ctx context.Context, cfg config.DBConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.PGDSN)
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown DB driver %q", cfg.Driver)
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}
