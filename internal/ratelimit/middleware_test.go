package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func TestMiddlewareLimitsEachClientIP(t *testing.T) {
	_, client := newMiniredis(t)
	limited := Handler{
		Limiter: RedisLimiter{Client: client, Prefix: "bagel:rl:"},
		Config:  Config{Key: KeyByClientIP, Window: time.Minute, Max: 1},
	}.Middleware(okHandler())

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/baskets", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, post("203.0.113.7").Code)

	rec := post("203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), `"code":"RATE_LIMITED"`)

	require.Equal(t, http.StatusCreated, post("198.51.100.2").Code)
}

func TestMiddlewareFailsOpenWhenStoreIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	var failures int
	limited := Handler{
		Limiter: RedisLimiter{Client: client, Prefix: "bagel:rl:"},
		Config:  Config{Key: KeyByClientIP, Window: time.Second, Max: 1},
		OnError: func(error) { failures++ },
	}.Middleware(okHandler())

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/baskets/b-1/order", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, failures)
}
