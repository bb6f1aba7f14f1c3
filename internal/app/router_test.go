package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bagel/internal/config"
	"github.com/noah-isme/backend-bagel/internal/pricing"
	"github.com/noah-isme/backend-bagel/internal/ratelimit"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		BasketDefaultCapacity: 50,
		Promotions:            pricing.DefaultRules(),
		IdempotencyTTL:        time.Minute,
		RateLimitWindow:       time.Minute,
		RateLimitMax:          1000,
		BodyLimitBytes:        1 << 12,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, rdb *redis.Client) http.Handler {
	t.Helper()
	deps, err := NewDependencies(context.Background(), cfg, zerolog.Nop(), Options{Redis: rdb, Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	return NewRouter(deps, RouterOptions{SecureHeaders: true})
}

func call(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dataID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data.ID
}

func TestCatalogAndHealthInMemory(t *testing.T) {
	h := newTestServer(t, testConfig(), nil)

	rec := call(t, h, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "BGLO")

	rec = call(t, h, http.MethodGet, "/api/v1/catalog/fillings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "FILX")

	rec = call(t, h, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderPlacementIsIdempotentWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	h := newTestServer(t, testConfig(), rdb)

	rec := call(t, h, http.MethodPost, "/api/v1/baskets", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	basketID := dataID(t, rec)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	for i := 0; i < 16; i++ {
		rec = call(t, h, http.MethodPost, "/api/v1/baskets/"+basketID+"/items", `{"sku":"BGLO"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	first := call(t, h, http.MethodPost, "/api/v1/baskets/"+basketID+"/order", "", "Idempotency-Key", "order-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	require.Contains(t, first.Body.String(), `"total":"5.95"`)

	replay := call(t, h, http.MethodPost, "/api/v1/baskets/"+basketID+"/order", "", "Idempotency-Key", "order-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	require.Equal(t, "true", replay.Header().Get("Idempotent-Replay"))
	require.Equal(t, dataID(t, first), dataID(t, replay))

	// without the key the placed basket conflicts
	again := call(t, h, http.MethodPost, "/api/v1/baskets/"+basketID+"/order", "")
	require.Equal(t, http.StatusConflict, again.Code)
	require.Contains(t, again.Body.String(), `"code":"ALREADY_PLACED"`)

	rec = call(t, h, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestRateLimitedAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	h := newTestServer(t, cfg, nil)

	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/catalog", "").Code)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/catalog", "").Code)
	rec := call(t, h, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// health endpoints are outside the limited group
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/health/live", "").Code)
}

func TestBodyLimitApplied(t *testing.T) {
	cfg := testConfig()
	cfg.BodyLimitBytes = 16
	h := newTestServer(t, cfg, nil)
	rec := call(t, h, http.MethodPost, "/api/v1/baskets", `{"capacity":12345678901234567890}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNewLimiterSelection(t *testing.T) {
	cfg := testConfig()
	l, err := NewLimiter(nil, cfg)
	require.NoError(t, err)
	require.IsType(t, ratelimit.FixedWindowLimiter{}, l)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	l, err = NewLimiter(rdb, cfg)
	require.NoError(t, err)
	require.IsType(t, ratelimit.RedisLimiter{}, l)

	cfg.RateLimitStrategy = "leaky"
	_, err = NewLimiter(rdb, cfg)
	require.Error(t, err)
}

func TestNewDependenciesRequiresConfig(t *testing.T) {
	_, err := NewDependencies(context.Background(), nil, zerolog.Nop(), Options{})
	require.Error(t, err)
}
