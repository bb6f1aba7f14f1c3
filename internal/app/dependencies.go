package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-bagel/internal/config"
	"github.com/noah-isme/backend-bagel/internal/events"
	"github.com/noah-isme/backend-bagel/internal/order"
	"github.com/noah-isme/backend-bagel/internal/ratelimit"
)

// Dependencies enumerates the services shared by the HTTP surface.
type Dependencies struct {
	Config          *config.Config
	Logger          zerolog.Logger
	Redis           *redis.Client
	Limiter         ratelimit.Limiter
	Events          *events.Bus
	Store           *order.Store
	MetricsRegistry prometheus.Registerer
	TracerProvider  trace.TracerProvider
}

// Options tune how dependencies are built.
type Options struct {
	// Redis overrides the client built from Config.RedisURL.
	Redis          *redis.Client
	MetricsEnabled bool
	Registry       prometheus.Registerer
}

// NewDependencies connects optional infrastructure and builds the order store.
// Without REDIS_URL the service runs fully in memory.
func NewDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	deps := &Dependencies{
		Config:          cfg,
		Logger:          logger,
		Redis:           opts.Redis,
		MetricsRegistry: opts.Registry,
		TracerProvider:  otel.GetTracerProvider(),
	}
	if deps.MetricsRegistry == nil {
		deps.MetricsRegistry = prometheus.DefaultRegisterer
	}

	if deps.Redis == nil && cfg.RedisEnabled() {
		client, err := NewRedis(ctx, cfg.RedisURL, opts.MetricsEnabled, logger)
		if err != nil {
			return nil, err
		}
		deps.Redis = client
	}

	limiter, err := NewLimiter(deps.Redis, cfg)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Limiter = limiter

	deps.Events = &events.Bus{
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger.With().Str("component", "events").Logger()}},
	}
	deps.Store = order.NewStore(order.StoreConfig{
		Rules:  cfg.Promotions,
		Events: deps.Events,
		Logger: logger.With().Str("component", "store").Logger(),
	})
	return deps, nil
}

// NewRedis opens and instruments a Redis client.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewLimiter picks the rate limiter backend. Redis gives a sliding window shared
// across replicas; without Redis a per-process fixed window is used.
func NewLimiter(rdb *redis.Client, cfg *config.Config) (ratelimit.Limiter, error) {
	if rdb == nil {
		return ratelimit.NewMemoryLimiter("bagel:ratelimit"), nil
	}
	switch cfg.RateLimitStrategy {
	case "fixed":
		return ratelimit.NewRedisFixedLimiter(rdb, "bagel:ratelimit")
	case "", "sliding":
		return ratelimit.RedisLimiter{Client: rdb, Prefix: "bagel:ratelimit:"}, nil
	default:
		return nil, fmt.Errorf("app: unknown rate limit strategy %q", cfg.RateLimitStrategy)
	}
}

// Close releases external connections.
func (d *Dependencies) Close() error {
	if d == nil || d.Redis == nil {
		return nil
	}
	return d.Redis.Close()
}
