package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/common"
	"github.com/noah-isme/backend-bagel/internal/health"
	"github.com/noah-isme/backend-bagel/internal/obs"
	"github.com/noah-isme/backend-bagel/internal/order"
	"github.com/noah-isme/backend-bagel/internal/ratelimit"
	"github.com/noah-isme/backend-bagel/internal/security"
)

// RouterOptions toggles the observability layers of the router.
type RouterOptions struct {
	HTTPMetrics    *obs.HTTPMetrics
	MetricsHandler http.Handler
	Tracing        bool
	SecureHeaders  bool
}

// NewRouter mounts the shop API on a chi router.
func NewRouter(d *Dependencies, opts RouterOptions) http.Handler {
	cfg := d.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.Tracing {
		r.Use(obs.Tracing{Provider: d.TracerProvider}.Middleware)
	}
	if opts.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: opts.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Total-Count", "X-Request-ID", "Idempotent-Replay"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(security.Headers{
		Enable:          opts.SecureHeaders,
		EnableHSTS:      cfg.AppEnv == "production",
		NoStorePrefixes: []string{"/api/v1/baskets", "/api/v1/orders"},
	}.Middleware)

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	probes := map[string]health.Probe{}
	if d.Redis != nil {
		probes["redis"] = health.RedisProbe(d.Redis)
	}
	healthHandler := health.Handler{Probes: probes, Timeout: 300 * time.Millisecond}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	catalogHandler := catalog.NewHandler()
	basketHandler := &basket.Handler{
		Registry:        d.Store,
		DefaultCapacity: cfg.BasketDefaultCapacity,
		Logger:          d.Logger,
	}
	orderHandler := &order.Handler{Store: d.Store, Logger: d.Logger, ReceiptTitle: cfg.ReceiptTitle}
	idem := common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL}
	limit := ratelimit.Handler{
		Limiter: d.Limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.KeyByClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			d.Logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limit.Middleware)
		v.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

		v.Get("/catalog", catalogHandler.Products)
		v.Get("/catalog/fillings", catalogHandler.Fillings)

		v.Route("/baskets", func(b chi.Router) {
			b.Post("/", basketHandler.Create)
			b.Get("/{id}", basketHandler.Get)
			b.Post("/{id}/items", basketHandler.AddItem)
			b.Delete("/{id}/items", basketHandler.RemoveItem)
			b.Put("/{id}/capacity", basketHandler.SetCapacity)
			b.With(idem.Middleware).Post("/{id}/order", orderHandler.Place)
		})

		v.Route("/orders", func(o chi.Router) {
			o.Get("/", orderHandler.List)
			o.Get("/{id}", orderHandler.Get)
			o.Get("/{id}/receipt", orderHandler.Receipt)
			o.Delete("/{id}", orderHandler.Delete)
		})
	})

	return r
}

// DefaultMetricsHandler serves the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
