package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bagel/internal/pricing"
)

func baseEnv() map[string]string {
	return map[string]string{
		"CONFIG_FILE":              "",
		"APP_ENV":                  "",
		"PORT":                     "",
		"REDIS_URL":                "",
		"CORS_ALLOWED_ORIGINS":     "",
		"BASKET_DEFAULT_CAPACITY":  "",
		"IDEMPOTENCY_TTL":          "",
		"RATE_LIMIT_WINDOW":        "",
		"RATE_LIMIT_MAX":           "",
		"RATE_LIMIT_STRATEGY":      "",
		"RECEIPT_TITLE":            "",
		"BODY_LIMIT_BYTES":         "",
		"PROMO_BAGEL_BUNDLES":      "",
		"PROMO_COFFEE_BAGEL_PRICE": "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, 50, cfg.BasketDefaultCapacity)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, "sliding", cfg.RateLimitStrategy)
	require.Equal(t, int64(1<<20), cfg.BodyLimitBytes)
	require.Equal(t, pricing.DefaultRules(), cfg.Promotions)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = ":9090"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example,"
	env["BASKET_DEFAULT_CAPACITY"] = "5"
	env["RATE_LIMIT_WINDOW"] = "30s"
	env["PROMO_BAGEL_BUNDLES"] = "6:2.49"
	env["PROMO_COFFEE_BAGEL_PRICE"] = "0"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 5, cfg.BasketDefaultCapacity)
	require.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	require.Len(t, cfg.Promotions.BagelBundles, 1)
	require.Equal(t, 6, cfg.Promotions.BagelBundles[0].Size)
	require.True(t, cfg.Promotions.CoffeeBagelPrice.IsZero())
}

func TestLoadRejectsBadPromotions(t *testing.T) {
	env := baseEnv()
	env["PROMO_BAGEL_BUNDLES"] = "twelve:3.99"
	_, err := LoadForTests(env)
	require.ErrorIs(t, err, pricing.ErrInvalidRule)

	env = baseEnv()
	env["PROMO_COFFEE_BAGEL_PRICE"] = "-1"
	_, err = LoadForTests(env)
	require.ErrorIs(t, err, pricing.ErrInvalidRule)

	env = baseEnv()
	env["PROMO_COFFEE_BAGEL_PRICE"] = "cheap"
	_, err = LoadForTests(env)
	require.Error(t, err)
}

func TestLoadRejectsNegativeCapacity(t *testing.T) {
	env := baseEnv()
	env["BASKET_DEFAULT_CAPACITY"] = "-1"
	_, err := LoadForTests(env)
	require.Error(t, err)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	env := baseEnv()
	env["IDEMPOTENCY_TTL"] = "soon"
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`APP_ENV: staging
BASKET_DEFAULT_CAPACITY: 12
RECEIPT_TITLE: Corner Bagels
PROMO_COFFEE_BAGEL_PRICE: 1.10
`), 0o600))

	env := baseEnv()
	env["CONFIG_FILE"] = path
	env["BASKET_DEFAULT_CAPACITY"] = "20"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.AppEnv)
	require.Equal(t, 20, cfg.BasketDefaultCapacity)
	require.Equal(t, "Corner Bagels", cfg.ReceiptTitle)
	require.Equal(t, "1.1", cfg.Promotions.CoffeeBagelPrice.String())
}

func TestLoadMissingConfigFile(t *testing.T) {
	env := baseEnv()
	env["CONFIG_FILE"] = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadForTests(env)
	require.Error(t, err)
}
